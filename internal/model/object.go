package model

import "time"

type Event struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	UserID       string     `json:"user_id"`
	Price        float64    `json:"price"`
	Status       string     `json:"status"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	HostIsActive bool       `json:"host_is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type EventWithAwards struct {
	Event
	Awards []Award `json:"awards"`
}

type Award struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	EventID     string `json:"event_id"`
	Winner      string `json:"winner,omitempty"`
	GameID      string `json:"game_id,omitempty"`
}

type Cell struct {
	Num    int  `json:"num"`
	Marked bool `json:"marked"`
}

type Card struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Buyer     string    `json:"buyer"`
	Nums      [][]Cell  `json:"nums"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is the descriptor of a live session.
type Room struct {
	Key       string    `json:"key"`
	EventID   string    `json:"event_id"`
	OwnerID   string    `json:"owner_id"`
	StartTime time.Time `json:"start_time"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomParticipant struct {
	ParticipantID string `json:"participant_id"`
	ConnectionID  string `json:"connection_id"`
}

// BillingItem is a line item handed to the payment collaborator.
type BillingItem struct {
	EventID  string  `json:"event_id"`
	CardID   string  `json:"card_id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"last_page"`
}

func NewMeta(total int64, page, limit int) Meta {
	lastPage := 0
	if limit > 0 {
		lastPage = int((total + int64(limit) - 1) / int64(limit))
	}

	return Meta{Total: total, Page: page, LastPage: lastPage}
}
