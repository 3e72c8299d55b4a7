package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBill(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(bill).Error
}

func (r *repo) FindBill(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) ListBills(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*domain.Bill, error) {
	stmt := db.WithContext(ctx).Model(&domain.Bill{}).Where("clinic_id = ?", clinicID)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	var bills []*domain.Bill
	err := stmt.Order("created_at desc, id desc").Find(&bills).Error
	return bills, err
}

func (r *repo) UpdateBill(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Bill{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) LastBillNumber(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, prefix string) (string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("clinic_id = ? AND bill_number LIKE ?", clinicID, prefix+"%").
		Order("LENGTH(bill_number) desc, bill_number desc").
		Limit(1).
		Pluck("bill_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, billID snowflake.ID) error {
	return db.WithContext(ctx).Where("bill_id = ?", billID).Delete(&domain.BillItem{}).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.BillItem, error) {
	var items []domain.BillItem
	err := db.WithContext(ctx).Where("bill_id = ?", billID).Order("position asc").Find(&items).Error
	return items, err
}

func (r *repo) ApplyPayment(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("id = ? AND balance >= ? AND status NOT IN ?", id, amount, []domain.Status{domain.StatusPaid, domain.StatusCancelled}).
		Updates(map[string]any{
			"paid":       gorm.Expr("paid + ?", amount),
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) CountPayments(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Payment{}).Where("bill_id = ?", billID).Count(&count).Error
	return count, err
}

func (r *repo) ListPaymentsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).Where("bill_id = ?", billID).Order("paid_at asc, id asc").Find(&payments).Error
	return payments, err
}

func (r *repo) ListPaymentsByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("paid_at desc, id desc").
		Find(&payments).Error
	return payments, err
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, before time.Time, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("status IN ? AND due_date < ?", []domain.Status{domain.StatusPending, domain.StatusPartial}, before).
		Updates(map[string]any{
			"status":     domain.StatusOverdue,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}
