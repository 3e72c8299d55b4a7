package ledger

import (
	"github.com/smallbiznis/clinicdesk/internal/ledger/repository"
	"github.com/smallbiznis/clinicdesk/internal/ledger/service"
	"go.uber.org/fx"
)

// Module provides the patient ledger. Billing appends to it inside its own
// transactions; adjustments and exports go through the service directly.
var Module = fx.Module("ledger.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
