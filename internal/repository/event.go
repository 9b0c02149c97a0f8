package repository

import (
	"context"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type GetListEventFilter struct {
	UserID string
	Status entity.EventStatus
	Offset int
	Limit  int
}

type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetList(ctx context.Context, filter GetListEventFilter) ([]entity.Event, error)
	Count(ctx context.Context, filter GetListEventFilter) (int64, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	DeleteByIDAndUserID(ctx context.Context, id, userID string) error
}

type eventRepository struct{}

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(ctx context.Context, e *entity.Event) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var result entity.Event
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *eventRepository) filter(ctx context.Context, filter GetListEventFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.Event{})
	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	return tx
}

func (r *eventRepository) GetList(ctx context.Context, filter GetListEventFilter) ([]entity.Event, error) {
	var result []entity.Event
	tx := r.filter(ctx, filter).Order("start_time ASC, created_at ASC")
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *eventRepository) Count(ctx context.Context, filter GetListEventFilter) (int64, error) {
	var result int64
	if err := r.filter(ctx, filter).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *eventRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.Event{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeleteByIDAndUserID removes the event row permanently.
func (r *eventRepository) DeleteByIDAndUserID(ctx context.Context, id, userID string) error {
	tx := xcontext.DB(ctx).Unscoped().
		Where("id=? AND user_id=?", id, userID).
		Delete(&entity.Event{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
