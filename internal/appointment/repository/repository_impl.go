package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, appt *domain.Appointment) error {
	return db.WithContext(ctx).Create(appt).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&appt).Error
	if err != nil {
		return nil, err
	}
	if appt.ID == 0 {
		return nil, nil
	}
	return &appt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Appointment, error) {
	stmt := db.WithContext(ctx).Model(&domain.Appointment{}).Where("clinic_id = ?", filter.ClinicID)
	opts := []option.QueryOption{
		option.ApplyCondition(filter.PatientID != nil, option.ApplyOperator("patient_id", option.Equal, filter.PatientID)),
		option.ApplyCondition(filter.StaffID != nil, option.ApplyOperator("staff_id", option.Equal, filter.StaffID)),
		option.ApplyCondition(filter.Status != "", option.ApplyOperator("status", option.Equal, filter.Status)),
	}
	if filter.From != nil {
		opts = append(opts, option.GTE("start_at", filter.From.UTC()))
	}
	if filter.To != nil {
		opts = append(opts, option.ApplyOperator("start_at", option.LessThan, filter.To.UTC()))
	}
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}

	var items []*domain.Appointment
	if err := stmt.Order("start_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Appointment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) HasOverlap(ctx context.Context, db *gorm.DB, clinicID, staffID snowflake.ID, start, end time.Time, exclude snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM appointments
		 WHERE clinic_id = ?
		   AND staff_id = ?
		   AND id <> ?
		   AND status NOT IN (?, ?)
		   AND start_at < ?
		   AND end_at > ?`,
		clinicID,
		staffID,
		exclude,
		domain.StatusCancelled,
		domain.StatusNoShow,
		end.UTC(),
		start.UTC(),
	).Scan(&count).Error
	return count > 0, err
}
