package repository

import (
	"context"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type GetListCardFilter struct {
	EventID   string
	Buyer     string
	Available *bool
	Offset    int
	Limit     int
}

type CardRepository interface {
	Create(ctx context.Context, card *entity.Card) error
	GetByID(ctx context.Context, id string) (*entity.Card, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Card, error)
	GetList(ctx context.Context, filter GetListCardFilter) ([]entity.Card, error)
	Count(ctx context.Context, filter GetListCardFilter) (int64, error)
	ExistsByHash(ctx context.Context, eventID, hash string) (bool, error)
	UpdateAvailableByID(ctx context.Context, id string, available bool) error
	UpdateAvailableByIDs(ctx context.Context, ids []string, available bool) (int64, error)
	UpdateNumsByID(ctx context.Context, id string, nums entity.Grid) error
	DeleteUnavailableByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteUnavailableByEventID(ctx context.Context, eventID string) error
}

type cardRepository struct{}

func NewCardRepository() *cardRepository {
	return &cardRepository{}
}

func (r *cardRepository) Create(ctx context.Context, card *entity.Card) error {
	return xcontext.DB(ctx).Create(card).Error
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*entity.Card, error) {
	var result entity.Card
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Card
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cardRepository) filter(ctx context.Context, filter GetListCardFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.Card{})
	if filter.EventID != "" {
		tx = tx.Where("event_id=?", filter.EventID)
	}

	if filter.Buyer != "" {
		tx = tx.Where("buyer=?", filter.Buyer)
	}

	if filter.Available != nil {
		tx = tx.Where("available=?", *filter.Available)
	}

	return tx
}

func (r *cardRepository) GetList(ctx context.Context, filter GetListCardFilter) ([]entity.Card, error) {
	var result []entity.Card
	tx := r.filter(ctx, filter).Order("created_at ASC")
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cardRepository) Count(ctx context.Context, filter GetListCardFilter) (int64, error) {
	var result int64
	if err := r.filter(ctx, filter).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *cardRepository) ExistsByHash(ctx context.Context, eventID, hash string) (bool, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Card{}).Unscoped().
		Where("event_id=? AND nums_hash=?", eventID, hash).
		Count(&result).Error
	if err != nil {
		return false, err
	}

	return result > 0, nil
}

func (r *cardRepository) UpdateAvailableByID(ctx context.Context, id string, available bool) error {
	tx := xcontext.DB(ctx).Model(&entity.Card{}).
		Where("id=?", id).
		Update("available", available)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cardRepository) UpdateAvailableByIDs(ctx context.Context, ids []string, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Card{}).
		Where("id IN (?)", ids).
		Update("available", available)
	return tx.RowsAffected, tx.Error
}

func (r *cardRepository) UpdateNumsByID(ctx context.Context, id string, nums entity.Grid) error {
	tx := xcontext.DB(ctx).Model(&entity.Card{}).
		Where("id=?", id).
		Update("nums", nums)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cardRepository) DeleteUnavailableByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).Unscoped().
		Delete(&entity.Card{}, "id IN (?) AND available=?", ids, false)
	return tx.RowsAffected, tx.Error
}

func (r *cardRepository) DeleteUnavailableByEventID(ctx context.Context, eventID string) error {
	return xcontext.DB(ctx).Unscoped().
		Delete(&entity.Card{}, "event_id=? AND available=?", eventID, false).Error
}
