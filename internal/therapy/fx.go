package therapy

import (
	"github.com/smallbiznis/clinicdesk/internal/therapy/repository"
	"github.com/smallbiznis/clinicdesk/internal/therapy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("therapy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
