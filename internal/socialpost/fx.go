package socialpost

import (
	"github.com/smallbiznis/clinicdesk/internal/socialpost/publisher"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/repository"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("socialpost.service",
	fx.Provide(repository.Provide),
	fx.Provide(publisher.Provide),
	fx.Provide(service.New),
)
