package presence

import (
	"context"
	"time"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/pkg/xredis"
)

// Allocator reserves the live session of an event.
type Allocator struct {
	redisClient xredis.Client
}

func NewAllocator(redisClient xredis.Client) *Allocator {
	return &Allocator{redisClient: redisClient}
}

// AllocateRoom stores the descriptor of the event room. Allocating the same
// event twice returns the first descriptor.
func (a *Allocator) AllocateRoom(ctx context.Context, req model.AllocateRoomRequest) (*model.Room, error) {
	key := common.RedisKeyRoom(req.EventID, "")

	existing, err := a.GetRoom(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return existing, nil
	}

	room := &model.Room{
		Key:       key,
		EventID:   req.EventID,
		OwnerID:   req.OwnerID,
		StartTime: req.StartTime.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	if err := a.redisClient.SetObj(ctx, common.RedisKeyRoomInfo(req.EventID), room, 0); err != nil {
		return nil, err
	}

	return room, nil
}

// GetRoom returns nil if the event has no room.
func (a *Allocator) GetRoom(ctx context.Context, eventID string) (*model.Room, error) {
	var room model.Room
	err := a.redisClient.GetObj(ctx, common.RedisKeyRoomInfo(eventID), &room)
	if err != nil {
		if xredis.IsNil(err) {
			return nil, nil
		}

		return nil, err
	}

	return &room, nil
}

func (a *Allocator) ReleaseRoom(ctx context.Context, eventID string) error {
	return a.redisClient.Del(ctx, common.RedisKeyRoomInfo(eventID))
}
