package audit

import (
	"github.com/smallbiznis/clinicdesk/internal/audit/repository"
	"github.com/smallbiznis/clinicdesk/internal/audit/service"
	"go.uber.org/fx"
)

// Module provides the audit trail written by every mutating API handler.
var Module = fx.Module("audit.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
