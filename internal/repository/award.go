package repository

import (
	"context"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type AwardRepository interface {
	CreateMany(ctx context.Context, awards []entity.Award) error
	GetByID(ctx context.Context, id string) (*entity.Award, error)
	GetByEventID(ctx context.Context, eventID string) ([]entity.Award, error)
	GetByEventIDs(ctx context.Context, eventIDs []string) ([]entity.Award, error)
	GetClaimedByEventID(ctx context.Context, eventID string) ([]entity.Award, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByEventID(ctx context.Context, eventID string) error
}

type awardRepository struct{}

func NewAwardRepository() *awardRepository {
	return &awardRepository{}
}

func (r *awardRepository) CreateMany(ctx context.Context, awards []entity.Award) error {
	if len(awards) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&awards).Error
}

func (r *awardRepository) GetByID(ctx context.Context, id string) (*entity.Award, error) {
	var result entity.Award
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *awardRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Award, error) {
	var result []entity.Award
	err := xcontext.DB(ctx).Where("event_id=?", eventID).
		Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *awardRepository) GetByEventIDs(ctx context.Context, eventIDs []string) ([]entity.Award, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	var result []entity.Award
	err := xcontext.DB(ctx).Where("event_id IN (?)", eventIDs).
		Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *awardRepository) GetClaimedByEventID(ctx context.Context, eventID string) ([]entity.Award, error) {
	var result []entity.Award
	err := xcontext.DB(ctx).
		Where("event_id=? AND (winner IS NOT NULL OR game_id IS NOT NULL)", eventID).
		Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *awardRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.Award{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *awardRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Unscoped().Delete(&entity.Award{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *awardRepository) DeleteByEventID(ctx context.Context, eventID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Award{}, "event_id=?", eventID).Error
}
