package prescription

import (
	"github.com/smallbiznis/clinicdesk/internal/prescription/repository"
	"github.com/smallbiznis/clinicdesk/internal/prescription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("prescription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
