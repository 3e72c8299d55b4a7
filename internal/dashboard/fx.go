package dashboard

import (
	"github.com/smallbiznis/clinicdesk/internal/dashboard/repository"
	"github.com/smallbiznis/clinicdesk/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
