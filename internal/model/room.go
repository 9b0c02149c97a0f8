package model

import "time"

type AllocateRoomRequest struct {
	EventID   string
	OwnerID   string
	StartTime time.Time
}

type JoinRoomRequest struct {
	EventID       string `json:"event_id"`
	Scope         string `json:"scope"`
	ParticipantID string `json:"participant_id"`
	ConnectionID  string `json:"connection_id"`
}

type JoinRoomResponse struct {
	Room  string `json:"room"`
	Count uint64 `json:"count"`
}

type CountUsersRoomRequest struct {
	EventID string `json:"event_id"`
	Scope   string `json:"scope"`
}

type CountUsersRoomResponse struct {
	Room  string `json:"room"`
	Count uint64 `json:"count"`
}

type DeleteRoomRequest struct {
	EventID string `json:"event_id"`
	Scope   string `json:"scope"`
}

type DeleteRoomResponse struct {
	Room string `json:"room"`
}

type DeleteUserRoomRequest struct {
	ParticipantID string `json:"participant_id"`
	ConnectionID  string `json:"connection_id"`
}

type DeleteUserRoomResponse struct {
	// Room is empty if the connection was not in any room.
	Room string `json:"room"`
}

type MoveRoomRequest struct {
	EventID   string `json:"event_id"`
	FromScope string `json:"from_scope"`
	ToScope   string `json:"to_scope"`
}

type MoveRoomResponse struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Moved int    `json:"moved"`
}

type ServeRoomRequest struct {
	EventID string `json:"event_id"`
	Scope   string `json:"scope"`
	UserID  string `json:"user_id"`
}

// PresenceMessage is broadcasted to live connections of a room whenever its
// membership changes.
type PresenceMessage struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Room    string `json:"room"`
	Count   uint64 `json:"count"`
}

// RoomClosedMessage is published on the room topic after the rooms of an
// event are deleted. Every api instance closes its live connections of
// these rooms.
type RoomClosedMessage struct {
	EventID string    `json:"event_id"`
	Rooms   []string  `json:"rooms"`
	At      time.Time `json:"at"`
}
