package domain

import (
	"context"

	"github.com/livebingo/backend/internal/model"
)

// AwardPort is the part of the award domain needed by the event domain.
type AwardPort interface {
	CreateBatch(ctx context.Context, eventID string, awards []model.CreateAwardRequest) ([]model.Award, error)
	DeleteByEventID(ctx context.Context, eventID string) error
	GetByEventIDs(ctx context.Context, eventIDs []string) (map[string][]model.Award, error)
}

// CardPort is the part of the card domain needed by the event domain.
type CardPort interface {
	CountSold(ctx context.Context, eventID string) (int64, error)
	// DeleteUnsold removes the cards of the event which are not sold and
	// returns their ids.
	DeleteUnsold(ctx context.Context, eventID string) ([]string, error)
}

// RoomAllocator reserves the live session of a new event.
type RoomAllocator interface {
	AllocateRoom(ctx context.Context, req model.AllocateRoomRequest) (*model.Room, error)
}
