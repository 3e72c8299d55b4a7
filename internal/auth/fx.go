package auth

import (
	"github.com/smallbiznis/clinicdesk/internal/auth/repository"
	"github.com/smallbiznis/clinicdesk/internal/auth/service"
	"github.com/smallbiznis/clinicdesk/internal/auth/session"
	"github.com/smallbiznis/clinicdesk/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(
		repository.New,
		token.NewIssuer,
		service.New,
		session.NewManager,
	),
)
