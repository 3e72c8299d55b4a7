package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	"github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("inventory.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateItemRequest) (*domain.Item, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		return nil, domain.ErrInvalidSKU
	}
	if req.Quantity < 0 || req.ReorderLevel < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if req.UnitCost < 0 {
		return nil, domain.ErrInvalidUnitCost
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unit"
	}

	now := s.clock.Now()
	item := &domain.Item{
		ID:           s.genID.Generate(),
		ClinicID:     clinicID,
		Name:         name,
		SKU:          sku,
		Unit:         unit,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertItem(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSKU
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	clinicID, itemID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.db, clinicID, itemID)
}

func (s *Service) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) (*domain.Item, error) {
	clinicID, itemID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, s.db, clinicID, itemID); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Unit != nil {
		if unit := strings.TrimSpace(*req.Unit); unit != "" {
			fields["unit"] = unit
		}
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		fields["reorder_level"] = *req.ReorderLevel
	}
	if req.UnitCost != nil {
		if *req.UnitCost < 0 {
			return nil, domain.ErrInvalidUnitCost
		}
		fields["unit_cost"] = *req.UnitCost
	}

	if err := s.repo.UpdateItem(ctx, s.db, itemID, fields); err != nil {
		return nil, err
	}
	return s.load(ctx, s.db, clinicID, itemID)
}

func (s *Service) ListItems(ctx context.Context, req domain.ListItemRequest) ([]*domain.Item, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	return s.repo.ListItems(ctx, s.db, clinicID, req.LowStock, req.Search)
}

// Adjust moves stock and records the resulting balance. OUT never drives
// quantity below zero.
func (s *Service) Adjust(ctx context.Context, id string, req domain.AdjustRequest) (*domain.Adjustment, error) {
	clinicID, itemID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}

	kind := domain.AdjustmentKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	switch kind {
	case domain.AdjustIn, domain.AdjustOut:
		if req.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	case domain.AdjustSet:
		if req.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
	default:
		return nil, domain.ErrInvalidKind
	}

	var adj *domain.Adjustment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.load(ctx, tx, clinicID, itemID); err != nil {
			return err
		}

		switch kind {
		case domain.AdjustSet:
			if err := s.repo.SetQuantity(ctx, tx, itemID, req.Quantity); err != nil {
				return err
			}
		default:
			delta := req.Quantity
			if kind == domain.AdjustOut {
				delta = -delta
			}
			applied, err := s.repo.ApplyDelta(ctx, tx, itemID, delta)
			if err != nil {
				return err
			}
			if !applied {
				return domain.ErrInsufficientStock
			}
		}

		item, err := s.load(ctx, tx, clinicID, itemID)
		if err != nil {
			return err
		}

		adj = &domain.Adjustment{
			ID:           s.genID.Generate(),
			ClinicID:     clinicID,
			ItemID:       itemID,
			Kind:         kind,
			Quantity:     req.Quantity,
			BalanceAfter: item.Quantity,
			Reason:       strings.TrimSpace(req.Reason),
			ActorID:      cliniccontext.ActorIDPtr(ctx),
			CreatedAt:    s.clock.Now(),
		}
		return s.repo.InsertAdjustment(ctx, tx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStockAdjustment(ctx, string(kind))
	s.log.Debug("stock adjusted",
		zap.String("item_id", itemID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("balance_after", adj.BalanceAfter),
	)
	return adj, nil
}

func (s *Service) ListAdjustments(ctx context.Context, id string) ([]*domain.Adjustment, error) {
	clinicID, itemID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, s.db, clinicID, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListAdjustments(ctx, s.db, itemID)
}

func (s *Service) CountLowStock(ctx context.Context, clinicID snowflake.ID) (int64, error) {
	return s.repo.CountLowStock(ctx, s.db, clinicID)
}

func (s *Service) scope(ctx context.Context, id string) (snowflake.ID, snowflake.ID, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidClinic
	}
	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || itemID == 0 {
		return 0, 0, domain.ErrInvalidID
	}
	return clinicID, itemID, nil
}

func (s *Service) load(ctx context.Context, conn *gorm.DB, clinicID, id snowflake.ID) (*domain.Item, error) {
	item, err := s.repo.FindItem(ctx, conn, clinicID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
