package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/pkg/pubsub"
	"github.com/livebingo/backend/pkg/xcontext"
)

// RoomCloser tears down the live session of an event.
type RoomCloser interface {
	CloseEvent(ctx context.Context, eventID string) ([]string, error)
}

type EventSubscriber struct {
	rooms     RoomCloser
	publisher pubsub.Publisher
}

func NewEventSubscriber(rooms RoomCloser, publisher pubsub.Publisher) *EventSubscriber {
	return &EventSubscriber{rooms: rooms, publisher: publisher}
}

// Subscribe handles a notification of the event topic. Rooms of deleted or
// completed events are closed, then the closed rooms are published on the
// room topic.
func (s *EventSubscriber) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var notification model.EventNotification
	if err := json.Unmarshal(pack.Msg, &notification); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal event notification: %v", err)
		return
	}

	switch notification.Type {
	case model.EventDeletedNotification:
	case model.EventStatusChangedNotification:
		if notification.Status != string(entity.EventCompleted) {
			return
		}
	default:
		return
	}

	rooms, err := s.rooms.CloseEvent(ctx, notification.EventID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot close room of event %s: %v", notification.EventID, err)
		common.PromCounters[common.EventNotificationTotal].WithLabelValues(notification.Type, "consume_failure").Inc()
		return
	}

	common.PromCounters[common.EventNotificationTotal].WithLabelValues(notification.Type, "consumed").Inc()
	xcontext.Logger(ctx).Infof("Closed room of event %s at %s", notification.EventID, t.Format(time.RFC3339))

	b, err := json.Marshal(model.RoomClosedMessage{
		EventID: notification.EventID,
		Rooms:   rooms,
		At:      time.Now().UTC(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal room closed message: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.RoomTopic
	err = s.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(notification.EventID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish room closed message of event %s: %v", notification.EventID, err)
	}
}

// LocalRoomCloser disconnects the live connections held by this process.
type LocalRoomCloser interface {
	CloseRooms(ctx context.Context, rooms []string)
}

// RoomSubscriber runs in every api instance and consumes the room topic.
type RoomSubscriber struct {
	rooms LocalRoomCloser
}

func NewRoomSubscriber(rooms LocalRoomCloser) *RoomSubscriber {
	return &RoomSubscriber{rooms: rooms}
}

func (s *RoomSubscriber) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var msg model.RoomClosedMessage
	if err := json.Unmarshal(pack.Msg, &msg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal room closed message: %v", err)
		return
	}

	s.rooms.CloseRooms(ctx, msg.Rooms)
	xcontext.Logger(ctx).Debugf("Closed %d local rooms of event %s", len(msg.Rooms), msg.EventID)
}
