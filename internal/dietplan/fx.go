package dietplan

import (
	"github.com/smallbiznis/clinicdesk/internal/dietplan/repository"
	"github.com/smallbiznis/clinicdesk/internal/dietplan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dietplan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
