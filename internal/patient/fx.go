package patient

import (
	"github.com/smallbiznis/clinicdesk/internal/patient/repository"
	"github.com/smallbiznis/clinicdesk/internal/patient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
