package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/domain/presence"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/ws"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

const presenceMessageType = "presence"

type RoomDomain interface {
	Join(context.Context, *model.JoinRoomRequest) (*model.JoinRoomResponse, error)
	CountUsers(context.Context, *model.CountUsersRoomRequest) (*model.CountUsersRoomResponse, error)
	Delete(context.Context, *model.DeleteRoomRequest) (*model.DeleteRoomResponse, error)
	DeleteUser(context.Context, *model.DeleteUserRoomRequest) (*model.DeleteUserRoomResponse, error)
	Move(context.Context, *model.MoveRoomRequest) (*model.MoveRoomResponse, error)
	ServeWS(context.Context, *model.ServeRoomRequest) error

	// CloseEvent deletes every room of the event, releases its allocation
	// and returns the deleted rooms.
	CloseEvent(ctx context.Context, eventID string) ([]string, error)

	// CloseRooms disconnects the local live connections of rooms.
	CloseRooms(ctx context.Context, rooms []string)
}

type roomDomain struct {
	eventRepo repository.EventRepository
	tracker   *presence.Tracker
	allocator *presence.Allocator
	hub       *ws.Hub
}

func NewRoomDomain(
	eventRepo repository.EventRepository,
	tracker *presence.Tracker,
	allocator *presence.Allocator,
	hub *ws.Hub,
) *roomDomain {
	return &roomDomain{
		eventRepo: eventRepo,
		tracker:   tracker,
		allocator: allocator,
		hub:       hub,
	}
}

func (d *roomDomain) Join(ctx context.Context, req *model.JoinRoomRequest) (*model.JoinRoomResponse, error) {
	if req.ParticipantID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require participant_id")
	}

	if req.ConnectionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require connection_id")
	}

	if _, err := d.getOpenEvent(ctx, req.EventID); err != nil {
		return nil, err
	}

	room := common.RedisKeyRoom(req.EventID, req.Scope)
	count, err := d.tracker.Join(ctx, room, model.RoomParticipant{
		ParticipantID: req.ParticipantID,
		ConnectionID:  req.ConnectionID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join room: %v", err)
		return nil, errorx.Unknown
	}

	d.broadcast(ctx, room, count)
	return &model.JoinRoomResponse{Room: room, Count: count}, nil
}

func (d *roomDomain) CountUsers(
	ctx context.Context, req *model.CountUsersRoomRequest,
) (*model.CountUsersRoomResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	room := common.RedisKeyRoom(req.EventID, req.Scope)
	count, err := d.tracker.Count(ctx, room)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users of room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CountUsersRoomResponse{Room: room, Count: count}, nil
}

func (d *roomDomain) Delete(ctx context.Context, req *model.DeleteRoomRequest) (*model.DeleteRoomResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	room := common.RedisKeyRoom(req.EventID, req.Scope)
	if err := d.tracker.DeleteRoom(ctx, room); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete room: %v", err)
		return nil, errorx.Unknown
	}

	d.broadcast(ctx, room, 0)
	return &model.DeleteRoomResponse{Room: room}, nil
}

func (d *roomDomain) DeleteUser(
	ctx context.Context, req *model.DeleteUserRoomRequest,
) (*model.DeleteUserRoomResponse, error) {
	if req.ConnectionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require connection_id")
	}

	room, err := d.tracker.DeleteUserRoom(ctx, req.ConnectionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete user from room: %v", err)
		return nil, errorx.Unknown
	}

	if room != "" {
		d.broadcastCount(ctx, room)
	}

	return &model.DeleteUserRoomResponse{Room: room}, nil
}

func (d *roomDomain) Move(ctx context.Context, req *model.MoveRoomRequest) (*model.MoveRoomResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	if req.FromScope == req.ToScope {
		return nil, errorx.New(errorx.BadRequest, "Source and destination rooms must be different")
	}

	from := common.RedisKeyRoom(req.EventID, req.FromScope)
	to := common.RedisKeyRoom(req.EventID, req.ToScope)
	moved, err := d.tracker.MoveRoom(ctx, from, to)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot move room: %v", err)
		return nil, errorx.Unknown
	}

	d.broadcast(ctx, from, 0)
	d.broadcastCount(ctx, to)

	return &model.MoveRoomResponse{From: from, To: to, Moved: moved}, nil
}

// ServeWS keeps the connection in the room until the client disconnects. The
// client receives a presence message every time the room changes.
func (d *roomDomain) ServeWS(ctx context.Context, req *model.ServeRoomRequest) error {
	client := xcontext.WsClient(ctx)
	if client == nil {
		return errorx.New(errorx.BadRequest, "Require a websocket connection")
	}

	if req.UserID == "" {
		return errorx.New(errorx.BadRequest, "Require user_id")
	}

	if _, err := d.getOpenEvent(ctx, req.EventID); err != nil {
		return err
	}

	room := common.RedisKeyRoom(req.EventID, req.Scope)
	connectionID := uuid.NewString()

	hubChannel, err := d.hub.Register(room, connectionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot register client to hub: %v", err)
		return errorx.Unknown
	}

	count, err := d.tracker.Join(ctx, room, model.RoomParticipant{
		ParticipantID: req.UserID,
		ConnectionID:  connectionID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join room: %v", err)
		if err := d.hub.Unregister(room, connectionID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unregister client from hub: %v", err)
		}
		return errorx.Unknown
	}

	d.broadcast(ctx, room, count)

	defer func() {
		// The request context may be canceled already.
		cleanupCtx := xcontext.Inherit(context.Background(), ctx)
		left, err := d.tracker.DeleteUserRoom(cleanupCtx, connectionID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove connection from room: %v", err)
		}

		// The hub may have been closed by CloseEvent.
		_ = d.hub.Unregister(room, connectionID)

		if left != "" {
			d.broadcastCount(cleanupCtx, left)
		}
	}()

	for {
		select {
		case _, ok := <-client.R:
			// Clients only listen, incoming messages are ignored.
			if !ok {
				return nil
			}

		case msg, ok := <-hubChannel:
			if !ok {
				return nil
			}

			if err := client.Write(msg); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot write to ws: %v", err)
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func (d *roomDomain) CloseEvent(ctx context.Context, eventID string) ([]string, error) {
	rooms, err := d.tracker.EventRooms(ctx, eventID)
	if err != nil {
		return nil, err
	}

	for _, room := range rooms {
		if err := d.tracker.DeleteRoom(ctx, room); err != nil {
			return nil, err
		}
	}

	if err := d.allocator.ReleaseRoom(ctx, eventID); err != nil {
		return nil, err
	}

	d.CloseRooms(ctx, rooms)
	return rooms, nil
}

func (d *roomDomain) CloseRooms(ctx context.Context, rooms []string) {
	for _, room := range rooms {
		d.broadcast(ctx, room, 0)
		d.hub.Close(room)
	}
}

func (d *roomDomain) getOpenEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	if eventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	event, err := d.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	if event.Status == entity.EventCompleted {
		return nil, errorx.New(errorx.Conflict, "Event has already completed")
	}

	return event, nil
}

func (d *roomDomain) broadcastCount(ctx context.Context, room string) {
	count, err := d.tracker.Count(ctx, room)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users of room: %v", err)
		return
	}

	d.broadcast(ctx, room, count)
}

func (d *roomDomain) broadcast(ctx context.Context, room string, count uint64) {
	b, err := json.Marshal(model.PresenceMessage{
		Type:    presenceMessageType,
		EventID: common.FromRedisKeyRoom(room),
		Room:    room,
		Count:   count,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal presence message: %v", err)
		return
	}

	d.hub.Broadcast(room, b)
}
