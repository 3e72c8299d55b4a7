package appointment

import (
	"github.com/smallbiznis/clinicdesk/internal/appointment/repository"
	"github.com/smallbiznis/clinicdesk/internal/appointment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
