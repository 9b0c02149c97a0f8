package common

import (
	"fmt"
	"strings"
)

///// EVENT
func RedisKeyEvent(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

func RedisKeyEventWithAwards(eventID string) string {
	return fmt.Sprintf("event:%s:awards", eventID)
}

func RedisKeyEventList(page, limit int) string {
	return fmt.Sprintf("events:all:%d:%d", page, limit)
}

func RedisKeyEventListByStatus(status string, page, limit int) string {
	if status == "" {
		status = "any"
	}

	return fmt.Sprintf("events:status:%s:%d:%d", status, page, limit)
}

func RedisKeyEventListByUser(userID string, page, limit int) string {
	return fmt.Sprintf("events:user:%s:%d:%d", userID, page, limit)
}

func RedisKeyEventListByUserAndStatus(userID, status string, page, limit int) string {
	return fmt.Sprintf("events:user:%s:status:%s:%d:%d", userID, status, page, limit)
}

func RedisKeyEventListByUserWithAwards(userID string, page, limit int) string {
	return fmt.Sprintf("events:user:%s:awards:%d:%d", userID, page, limit)
}

// RedisPatternEventList matches every paginated or filtered event list.
func RedisPatternEventList() string {
	return "events:*"
}

///// AWARD
func RedisKeyAward(awardID string) string {
	return fmt.Sprintf("award:%s", awardID)
}

func RedisKeyAwardsByEvent(eventID string) string {
	return fmt.Sprintf("awards:event:%s", eventID)
}

func RedisKeyWinnersByEvent(eventID string) string {
	return fmt.Sprintf("awards:event:%s:winners", eventID)
}

func RedisPatternAwardsByEvent(eventID string) string {
	return fmt.Sprintf("awards:event:%s*", eventID)
}

///// CARD
func RedisKeyCard(cardID string) string {
	return fmt.Sprintf("card:%s", cardID)
}

func RedisKeyCardListByEvent(eventID string, page, limit int) string {
	return fmt.Sprintf("cards:event:%s:%d:%d", eventID, page, limit)
}

func RedisKeyCardCountByEvent(eventID string) string {
	return fmt.Sprintf("cards:event:%s:count", eventID)
}

func RedisPatternCardsByEvent(eventID string) string {
	return fmt.Sprintf("cards:event:%s:*", eventID)
}

///// ROOM
func RedisKeyRoom(eventID, scope string) string {
	if scope == "" {
		return fmt.Sprintf("room:%s", eventID)
	}

	return fmt.Sprintf("room:%s:%s", eventID, scope)
}

// RedisPatternScopedRooms matches every room of the event except the base
// room.
func RedisPatternScopedRooms(eventID string) string {
	return fmt.Sprintf("room:%s:*", eventID)
}

// RedisKeyRoomInfo is the allocation descriptor of the event. It is outside
// of the room namespace, so no room scope can collide with it.
func RedisKeyRoomInfo(eventID string) string {
	return fmt.Sprintf("room_info:%s", eventID)
}

func RedisKeySocket(connectionID string) string {
	return fmt.Sprintf("sockets:%s", connectionID)
}

// FromRedisKeyRoom returns the event id of a room key.
func FromRedisKeyRoom(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}
