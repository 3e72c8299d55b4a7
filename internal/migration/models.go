package migration

import (
	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	dietplandomain "github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	prescriptiondomain "github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	socialpostdomain "github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	therapydomain "github.com/smallbiznis/clinicdesk/internal/therapy/domain"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&clinicdomain.Clinic{},
		&authdomain.User{},
		&auditdomain.AuditLog{},
		&staffdomain.Staff{},
		&patientdomain.Patient{},
		&appointmentdomain.Appointment{},
		&prescriptiondomain.Prescription{},
		&prescriptiondomain.Item{},
		&therapydomain.Plan{},
		&therapydomain.Session{},
		&dietplandomain.Template{},
		&dietplandomain.Plan{},
		&inventorydomain.Item{},
		&inventorydomain.Adjustment{},
		&socialpostdomain.Post{},
		&billingdomain.Bill{},
		&billingdomain.BillItem{},
		&billingdomain.Payment{},
		&ledgerdomain.Entry{},
	}
}
