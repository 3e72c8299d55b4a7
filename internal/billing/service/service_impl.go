package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/internal/billing/pdf"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	"github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	billNumberAttempts = 5
	overdueJobName     = "bills-overdue"
	overdueJobTTL      = 5 * time.Minute
	defaultLockTTL     = 15 * time.Second
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Locker     locking.Locker
	Billing    *config.BillingConfigHolder
	PatientSvc patientdomain.Service
	LedgerSvc  ledgerdomain.Service
	ClinicSvc  clinicdomain.Service `optional:"true"`
	Guard      *ratelimit.RunGuard  `optional:"true"`
	Metrics    *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	locker     locking.Locker
	billing    *config.BillingConfigHolder
	patientSvc patientdomain.Service
	ledgerSvc  ledgerdomain.Service
	clinicSvc  clinicdomain.Service
	guard      *ratelimit.RunGuard
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	guard := p.Guard
	if guard == nil {
		guard = ratelimit.NewRunGuard(nil)
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		locker:     p.Locker,
		billing:    p.Billing,
		patientSvc: p.PatientSvc,
		ledgerSvc:  p.LedgerSvc,
		clinicSvc:  p.ClinicSvc,
		guard:      guard,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (*domain.Bill, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	patientID, err := parseID(req.PatientID, domain.ErrInvalidPatient)
	if err != nil {
		return nil, err
	}
	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	policy := domain.Policy{
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: decimalOr(req.DiscountPercent, decimal.Zero),
		TaxRate:         decimalOr(req.TaxRate, s.defaultTaxRate()),
	}
	totals, err := domain.Compute(items, policy)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issued := dateOnly(now)
	if req.IssueDate != nil {
		issued = dateOnly(*req.IssueDate)
	}
	due := issued.AddDate(0, 0, s.billing.Get().OverdueAfterDays)
	if req.DueDate != nil {
		due = dateOnly(*req.DueDate)
	}
	if due.Before(issued) {
		return nil, domain.ErrInvalidDueDate
	}

	if _, err := s.patientSvc.Resolve(ctx, patientID); err != nil {
		return nil, err
	}
	currency := s.currency(ctx)

	status := domain.StatusDraft
	if req.Issue {
		status = domain.StatusPending
	}

	var bill *domain.Bill
	for attempt := 0; attempt < billNumberAttempts; attempt++ {
		bill = &domain.Bill{
			ID:        s.genID.Generate(),
			ClinicID:  clinicID,
			PatientID: patientID,
			Status:    status,
			Currency:  currency,
			IssueDate: issued,
			DueDate:   due,
			Notes:     strings.TrimSpace(req.Notes),
			CreatedBy: cliniccontext.ActorIDPtr(ctx),
			CreatedAt: now,
			UpdatedAt: now,
		}
		totals.Apply(bill, policy)
		bill.Items = s.buildItems(bill.ID, items, totals, now)

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.nextBillNumber(ctx, tx, clinicID, issued)
			if err != nil {
				return err
			}
			bill.BillNumber = number
			if err := s.repo.InsertBill(ctx, tx, bill); err != nil {
				return err
			}
			return s.repo.InsertItems(ctx, tx, bill.Items)
		})
		if err == nil {
			break
		}
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
		s.log.Debug("bill number taken, retrying", zap.String("bill_number", bill.BillNumber), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, domain.ErrBillNumberExhausted
	}

	s.metrics.RecordBillCreated(ctx, string(bill.Status))
	s.log.Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_number", bill.BillNumber),
		zap.Int64("total", bill.Total),
	)
	return bill, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Bill, error) {
	clinicID, billID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	bill, err := s.load(ctx, s.db, clinicID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Items, err = s.repo.ListItems(ctx, s.db, bill.ID); err != nil {
		return nil, err
	}
	if bill.Payments, err = s.repo.ListPaymentsByBill(ctx, s.db, bill.ID); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillRequest) (domain.ListBillResponse, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return domain.ListBillResponse{}, domain.ErrInvalidClinic
	}

	var patientID snowflake.ID
	if strings.TrimSpace(req.PatientID) != "" {
		id, err := parseID(req.PatientID, domain.ErrInvalidPatient)
		if err != nil {
			return domain.ListBillResponse{}, err
		}
		patientID = id
	}
	var status domain.Status
	if raw := strings.ToUpper(strings.TrimSpace(req.Status)); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.ListBillResponse{}, domain.ErrInvalidStatus
		}
		status = parsed
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return domain.ListBillResponse{}, domain.ErrInvalidTimeRange
	}
	if err := req.Pagination.Validate(); err != nil {
		return domain.ListBillResponse{}, err
	}

	opts := []option.QueryOption{
		option.ApplyCondition(patientID != 0, option.ApplyOperator("patient_id", option.Equal, patientID)),
		option.ApplyCondition(status != "", option.ApplyOperator("status", option.Equal, status)),
		option.ApplyPagination(req.Pagination),
	}
	if req.From != nil {
		opts = append(opts, option.GTE("issue_date", dateOnly(*req.From)))
	}
	if req.To != nil {
		opts = append(opts, option.LTE("issue_date", dateOnly(*req.To)))
	}

	bills, err := s.repo.ListBills(ctx, s.db, clinicID, opts...)
	if err != nil {
		return domain.ListBillResponse{}, err
	}
	bills, pageInfo := pagination.Trim(bills, pagination.Normalize(req.PageSize), func(b *domain.Bill) string {
		return pagination.CursorFor(b.ID.String(), b.CreatedAt)
	})
	return domain.ListBillResponse{PageInfo: pageInfo, Bills: bills}, nil
}

// Update replaces the item set and recomputes every aggregate. A changed
// total is recorded as an ADJUSTMENT on the patient ledger.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateBillRequest) (*domain.Bill, error) {
	clinicID, billID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}
	if req.DiscountAmount != nil && *req.DiscountAmount < 0 {
		return nil, domain.ErrInvalidDiscount
	}

	current, err := s.load(ctx, s.db, clinicID, billID)
	if err != nil {
		return nil, err
	}
	if current.Status.Locked() {
		return nil, domain.ErrBillLocked
	}

	var delta int64
	err = s.withPatientLock(ctx, current.PatientID, func(tx *gorm.DB) error {
		bill, err := s.load(ctx, tx, clinicID, billID)
		if err != nil {
			return err
		}
		if bill.Status.Locked() {
			return domain.ErrBillLocked
		}

		policy := domain.Policy{
			DiscountAmount:  bill.DiscountAmount,
			DiscountPercent: decimalOr(req.DiscountPercent, bill.DiscountPercent),
			TaxRate:         decimalOr(req.TaxRate, bill.TaxRate),
		}
		if req.DiscountAmount != nil {
			policy.DiscountAmount = *req.DiscountAmount
		}
		totals, err := domain.Compute(items, policy)
		if err != nil {
			return err
		}
		if totals.Total < bill.Paid {
			return domain.ErrTotalBelowPaid
		}

		previous := bill.Total
		totals.Apply(bill, policy)
		delta = bill.Total - previous

		switch {
		case bill.Paid > 0 && bill.Balance == 0:
			bill.Status = domain.StatusPaid
		case bill.Paid > 0:
			bill.Status = domain.StatusPartial
		}

		now := s.clock.Now()
		fields := map[string]any{
			"subtotal":         bill.Subtotal,
			"item_tax":         bill.ItemTax,
			"item_discount":    bill.ItemDiscount,
			"discount_amount":  bill.DiscountAmount,
			"discount_percent": bill.DiscountPercent,
			"discount":         bill.Discount,
			"tax_rate":         bill.TaxRate,
			"tax":              bill.Tax,
			"total":            bill.Total,
			"balance":          bill.Balance,
			"status":           bill.Status,
			"updated_at":       now,
		}
		if req.Notes != nil {
			fields["notes"] = strings.TrimSpace(*req.Notes)
		}
		if req.DueDate != nil {
			due := dateOnly(*req.DueDate)
			if due.Before(bill.IssueDate) {
				return domain.ErrInvalidDueDate
			}
			fields["due_date"] = due
		}

		if err := s.repo.DeleteItems(ctx, tx, bill.ID); err != nil {
			return err
		}
		if err := s.repo.InsertItems(ctx, tx, s.buildItems(bill.ID, items, totals, now)); err != nil {
			return err
		}
		if err := s.repo.UpdateBill(ctx, tx, bill.ID, fields); err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}

		entry := &ledgerdomain.Entry{
			ClinicID:    bill.ClinicID,
			PatientID:   bill.PatientID,
			BillID:      &bill.ID,
			Type:        ledgerdomain.EntryTypeAdjustment,
			Description: "Bill " + bill.BillNumber + " adjusted",
			CreatedBy:   cliniccontext.ActorIDPtr(ctx),
		}
		if delta > 0 {
			entry.Debit = delta
		} else {
			entry.Credit = -delta
		}
		return s.ledgerSvc.Append(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		s.metrics.RecordLedgerEntry(ctx, string(ledgerdomain.EntryTypeAdjustment))
	}
	return s.Get(ctx, id)
}

// RecordPayment applies amount against the outstanding balance. The bill
// row is only touched while its balance still covers amount.
func (s *Service) RecordPayment(ctx context.Context, id string, req domain.RecordPaymentRequest) (*domain.PaymentResult, error) {
	clinicID, billID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method)))
	if method == "" {
		method = domain.MethodCash
	}
	if !domain.ValidPaymentMethod(string(method)) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	current, err := s.load(ctx, s.db, clinicID, billID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	result := &domain.PaymentResult{}
	err = s.withPatientLock(ctx, current.PatientID, func(tx *gorm.DB) error {
		bill, err := s.load(ctx, tx, clinicID, billID)
		if err != nil {
			return err
		}
		if !bill.Status.Payable() {
			return domain.ErrBillNotPayable
		}
		if req.Amount > bill.Balance {
			return domain.ErrPaymentExceedsBalance
		}

		applied, err := s.repo.ApplyPayment(ctx, tx, bill.ID, req.Amount, now)
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrPaymentExceedsBalance
		}

		status := domain.StatusPartial
		if bill.Balance-req.Amount == 0 {
			status = domain.StatusPaid
		}
		if err := s.repo.UpdateBill(ctx, tx, bill.ID, map[string]any{"status": status}); err != nil {
			return err
		}

		payment := &domain.Payment{
			ID:         s.genID.Generate(),
			ClinicID:   bill.ClinicID,
			BillID:     bill.ID,
			PatientID:  bill.PatientID,
			Amount:     req.Amount,
			Method:     method,
			Reference:  strings.TrimSpace(req.Reference),
			Notes:      strings.TrimSpace(req.Notes),
			PaidAt:     paidAt,
			RecordedBy: cliniccontext.ActorIDPtr(ctx),
			CreatedAt:  now,
		}
		if err := s.repo.InsertPayment(ctx, tx, payment); err != nil {
			return err
		}

		entry := &ledgerdomain.Entry{
			ClinicID:    bill.ClinicID,
			PatientID:   bill.PatientID,
			BillID:      &payment.BillID,
			PaymentID:   &payment.ID,
			Type:        ledgerdomain.EntryTypePayment,
			Credit:      req.Amount,
			Description: "Payment for " + bill.BillNumber + " (" + string(method) + ")",
			CreatedBy:   payment.RecordedBy,
		}
		if err := s.ledgerSvc.Append(ctx, tx, entry); err != nil {
			return err
		}

		result.Payment = payment
		result.LedgerEntry = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, string(method), req.Amount)
	s.metrics.RecordLedgerEntry(ctx, string(ledgerdomain.EntryTypePayment))
	s.log.Info("payment recorded",
		zap.String("bill_id", billID.String()),
		zap.String("payment_id", result.Payment.ID.String()),
		zap.Int64("amount", req.Amount),
	)

	result.Bill, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel voids an unpaid bill and credits its total back on the ledger.
func (s *Service) Cancel(ctx context.Context, id string, reason string) (*domain.Bill, error) {
	clinicID, billID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx, s.db, clinicID, billID)
	if err != nil {
		return nil, err
	}

	ledgered := false
	err = s.withPatientLock(ctx, current.PatientID, func(tx *gorm.DB) error {
		bill, err := s.load(ctx, tx, clinicID, billID)
		if err != nil {
			return err
		}
		if bill.Status == domain.StatusCancelled {
			return domain.ErrBillAlreadyCancelled
		}
		payments, err := s.repo.CountPayments(ctx, tx, bill.ID)
		if err != nil {
			return err
		}
		if payments > 0 || bill.Paid > 0 {
			return domain.ErrBillHasPayments
		}

		now := s.clock.Now()
		if err := s.repo.UpdateBill(ctx, tx, bill.ID, map[string]any{
			"status":       domain.StatusCancelled,
			"balance":      int64(0),
			"cancelled_at": now,
			"updated_at":   now,
		}); err != nil {
			return err
		}
		if bill.Total == 0 {
			return nil
		}

		description := "Bill " + bill.BillNumber + " cancelled"
		if reason = strings.TrimSpace(reason); reason != "" {
			description += ": " + reason
		}
		ledgered = true
		return s.ledgerSvc.Append(ctx, tx, &ledgerdomain.Entry{
			ClinicID:    bill.ClinicID,
			PatientID:   bill.PatientID,
			BillID:      &bill.ID,
			Type:        ledgerdomain.EntryTypeAdjustment,
			Credit:      bill.Total,
			Description: description,
			CreatedBy:   cliniccontext.ActorIDPtr(ctx),
		})
	})
	if err != nil {
		return nil, err
	}

	if ledgered {
		s.metrics.RecordLedgerEntry(ctx, string(ledgerdomain.EntryTypeAdjustment))
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Bill, error) {
	clinicID, billID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := domain.ParseStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, domain.ErrInvalidStatus
	}
	current, err := s.load(ctx, s.db, clinicID, billID)
	if err != nil {
		return nil, err
	}

	err = s.withPatientLock(ctx, current.PatientID, func(tx *gorm.DB) error {
		bill, err := s.load(ctx, tx, clinicID, billID)
		if err != nil {
			return err
		}
		if bill.Status == next {
			return nil
		}
		if !bill.Status.CanSetExplicitly(next, bill.Paid) {
			return domain.ErrInvalidStatusTransition
		}
		return s.repo.UpdateBill(ctx, tx, bill.ID, map[string]any{
			"status":     next,
			"updated_at": s.clock.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkOverdue flags bills whose due date lies before the day of now.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	var marked int64
	err := s.guard.Run(ctx, overdueJobName, overdueJobTTL, func(ctx context.Context) error {
		n, err := s.repo.MarkOverdue(ctx, s.db, dateOnly(now), s.clock.Now())
		marked = n
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("overdue sweep finished", zap.Int64("marked", marked))
	return marked, nil
}

func (s *Service) ListPayments(ctx context.Context, billID string) ([]*domain.Payment, error) {
	clinicID, id, err := s.scope(ctx, billID)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, s.db, clinicID, id); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPaymentsByBill(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Payment, len(payments))
	for i := range payments {
		out[i] = &payments[i]
	}
	return out, nil
}

func (s *Service) ListPatientPayments(ctx context.Context, patientID string) ([]*domain.Payment, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	id, err := parseID(patientID, domain.ErrInvalidPatient)
	if err != nil {
		return nil, err
	}
	if _, err := s.patientSvc.Resolve(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByPatient(ctx, s.db, clinicID, id)
}

func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patient, err := s.patientSvc.Resolve(ctx, bill.PatientID)
	if err != nil {
		return nil, err
	}

	doc := pdf.Document{
		PatientName:  patient.FullName(),
		PatientMRN:   patient.MRN,
		PatientPhone: patient.Phone,
		Bill:         bill,
	}
	if s.clinicSvc != nil {
		if clinic, err := s.clinicSvc.Current(ctx); err == nil {
			doc.ClinicName = clinic.Name
			doc.ClinicAddress = clinic.Address
			doc.ClinicPhone = clinic.Phone
			doc.ClinicEmail = clinic.Email
		}
	}
	return pdf.Render(doc)
}

func (s *Service) withPatientLock(ctx context.Context, patientID snowflake.ID, fn func(tx *gorm.DB) error) error {
	lease, err := s.locker.Obtain(ctx, ledgerdomain.PatientLockKey(patientID), s.lockTTL())
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.log.Warn("failed to release patient lock", zap.Error(releaseErr))
		}
	}()
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Service) lockTTL() time.Duration {
	if seconds := s.billing.Get().PaymentLockTTLSeconds; seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultLockTTL
}

func (s *Service) defaultTaxRate() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.billing.Get().DefaultTaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (s *Service) currency(ctx context.Context) string {
	if s.clinicSvc != nil {
		if clinic, err := s.clinicSvc.Current(ctx); err == nil && clinic.Currency != "" {
			return clinic.Currency
		}
	}
	return s.billing.Get().Currency
}

func (s *Service) buildItems(billID snowflake.ID, items []domain.ItemInput, totals domain.Totals, now time.Time) []domain.BillItem {
	out := make([]domain.BillItem, len(items))
	for i, item := range items {
		out[i] = domain.BillItem{
			ID:          s.genID.Generate(),
			BillID:      billID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Tax:         item.Tax,
			Discount:    item.Discount,
			LineTotal:   totals.LineTotals[i],
			Position:    i + 1,
			CreatedAt:   now,
		}
	}
	return out
}

func (s *Service) scope(ctx context.Context, id string) (snowflake.ID, snowflake.ID, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidClinic
	}
	billID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return 0, 0, err
	}
	return clinicID, billID, nil
}

func (s *Service) load(ctx context.Context, conn *gorm.DB, clinicID, id snowflake.ID) (*domain.Bill, error) {
	bill, err := s.repo.FindBill(ctx, conn, clinicID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	return bill, nil
}

func normalizeItems(in []domain.ItemInput) ([]domain.ItemInput, error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyItems
	}
	out := make([]domain.ItemInput, len(in))
	for i, item := range in {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			return nil, domain.ErrInvalidDescription
		}
		out[i] = item
	}
	return out, nil
}

func parseID(raw string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
