package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.Item) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindItem(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Limit(1).Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, lowStock bool, search string) ([]*domain.Item, error) {
	stmt := db.WithContext(ctx).Model(&domain.Item{}).Where("clinic_id = ?", clinicID)
	stmt = option.ApplyCondition(lowStock, option.QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where("quantity <= reorder_level")
	})).Apply(stmt)
	stmt = option.Contains(search, "name", "sku").Apply(stmt)

	var items []*domain.Item
	err := stmt.Order("name asc, id asc").Find(&items).Error
	return items, err
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) ApplyDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) SetQuantity(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int64) error {
	return db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *repo) InsertAdjustment(ctx context.Context, db *gorm.DB, adj *domain.Adjustment) error {
	return db.WithContext(ctx).Create(adj).Error
}

func (r *repo) ListAdjustments(ctx context.Context, db *gorm.DB, itemID snowflake.ID) ([]*domain.Adjustment, error) {
	var items []*domain.Adjustment
	err := db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at desc, id desc").Find(&items).Error
	return items, err
}

func (r *repo) CountLowStock(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Item{}).
		Where("clinic_id = ? AND quantity <= reorder_level", clinicID).
		Count(&count).Error
	return count, err
}
