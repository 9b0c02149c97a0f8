package testutil

import (
	"context"

	"github.com/livebingo/backend/internal/model"
)

type MockRoomAllocator struct {
	AllocateRoomFunc func(context.Context, model.AllocateRoomRequest) (*model.Room, error)
}

func (m *MockRoomAllocator) AllocateRoom(ctx context.Context, req model.AllocateRoomRequest) (*model.Room, error) {
	if m.AllocateRoomFunc != nil {
		return m.AllocateRoomFunc(ctx, req)
	}

	return &model.Room{
		Key:       "room:" + req.EventID,
		EventID:   req.EventID,
		OwnerID:   req.OwnerID,
		StartTime: req.StartTime,
	}, nil
}
