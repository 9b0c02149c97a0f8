// Package presence keeps the live membership of rooms in redis.
//
// A room is a hash whose fields are participant ids. Every connection has a
// reverse index hash pointing to the room it joined, so a disconnection can
// be cleaned up without knowing the room.
package presence

import (
	"context"
	"encoding/json"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/pkg/xredis"
)

const (
	socketConnectionField  = "connection_id"
	socketParticipantField = "participant_id"
	socketRoomField        = "key"
)

type Tracker struct {
	redisClient xredis.Client
}

func NewTracker(redisClient xredis.Client) *Tracker {
	return &Tracker{redisClient: redisClient}
}

// Join adds participant into room and returns the new number of members.
func (t *Tracker) Join(ctx context.Context, room string, participant model.RoomParticipant) (uint64, error) {
	b, err := json.Marshal(participant)
	if err != nil {
		return 0, err
	}

	err = t.redisClient.HSet(ctx, room, map[string]string{participant.ParticipantID: string(b)})
	if err != nil {
		return 0, err
	}

	err = t.redisClient.HSet(ctx, common.RedisKeySocket(participant.ConnectionID), map[string]string{
		socketConnectionField:  participant.ConnectionID,
		socketParticipantField: participant.ParticipantID,
		socketRoomField:        room,
	})
	if err != nil {
		return 0, err
	}

	return t.redisClient.HLen(ctx, room)
}

func (t *Tracker) Count(ctx context.Context, room string) (uint64, error) {
	return t.redisClient.HLen(ctx, room)
}

func (t *Tracker) Members(ctx context.Context, room string) ([]model.RoomParticipant, error) {
	values, err := t.redisClient.HGetAll(ctx, room)
	if err != nil {
		return nil, err
	}

	result := []model.RoomParticipant{}
	for _, v := range values {
		var p model.RoomParticipant
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, nil
}

// RoomOf returns the room joined by the connection, or an empty string.
func (t *Tracker) RoomOf(ctx context.Context, connectionID string) (string, error) {
	socket, err := t.redisClient.HGetAll(ctx, common.RedisKeySocket(connectionID))
	if err != nil {
		return "", err
	}

	return socket[socketRoomField], nil
}

// DeleteUserRoom removes the connection from the room it joined and returns
// the room key. The room is removed when it becomes empty. It returns an
// empty key if the connection has not joined any room.
func (t *Tracker) DeleteUserRoom(ctx context.Context, connectionID string) (string, error) {
	socketKey := common.RedisKeySocket(connectionID)
	socket, err := t.redisClient.HGetAll(ctx, socketKey)
	if err != nil {
		return "", err
	}

	room := socket[socketRoomField]
	if room == "" {
		return "", nil
	}

	participantID := socket[socketParticipantField]
	members, err := t.redisClient.HGetAll(ctx, room)
	if err != nil {
		return "", err
	}

	// The participant may have joined again with a newer connection.
	if v, ok := members[participantID]; ok {
		var p model.RoomParticipant
		if err := json.Unmarshal([]byte(v), &p); err != nil || p.ConnectionID == connectionID {
			if err := t.redisClient.HDel(ctx, room, participantID); err != nil {
				return "", err
			}
		}
	}

	if err := t.redisClient.Del(ctx, socketKey); err != nil {
		return "", err
	}

	n, err := t.redisClient.HLen(ctx, room)
	if err != nil {
		return "", err
	}

	if n == 0 {
		if err := t.redisClient.Del(ctx, room); err != nil {
			return "", err
		}
	}

	return room, nil
}

// EventRooms returns the base room and every scoped room of the event.
func (t *Tracker) EventRooms(ctx context.Context, eventID string) ([]string, error) {
	scoped, err := t.redisClient.Keys(ctx, common.RedisPatternScopedRooms(eventID))
	if err != nil {
		return nil, err
	}

	return append([]string{common.RedisKeyRoom(eventID, "")}, scoped...), nil
}

// DeleteRoom removes the room and the reverse index of its members.
func (t *Tracker) DeleteRoom(ctx context.Context, room string) error {
	members, err := t.Members(ctx, room)
	if err != nil {
		return err
	}

	keys := []string{room}
	for _, m := range members {
		keys = append(keys, common.RedisKeySocket(m.ConnectionID))
	}

	return t.redisClient.Del(ctx, keys...)
}

// MoveRoom copies all members of from into to, then deletes from. It returns
// the number of moved members. The copy is not atomic.
func (t *Tracker) MoveRoom(ctx context.Context, from, to string) (int, error) {
	values, err := t.redisClient.HGetAll(ctx, from)
	if err != nil {
		return 0, err
	}

	if len(values) == 0 {
		return 0, nil
	}

	if err := t.redisClient.HSet(ctx, to, values); err != nil {
		return 0, err
	}

	for _, v := range values {
		var p model.RoomParticipant
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}

		err := t.redisClient.HSet(ctx, common.RedisKeySocket(p.ConnectionID), map[string]string{
			socketRoomField: to,
		})
		if err != nil {
			return 0, err
		}
	}

	if err := t.redisClient.Del(ctx, from); err != nil {
		return 0, err
	}

	return len(values), nil
}
