package model

import "time"

type CreateAwardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateEventRequest struct {
	UserID       string               `json:"user_id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Price        float64              `json:"price"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      *time.Time           `json:"end_time"`
	HostIsActive bool                 `json:"host_is_active"`
	Awards       []CreateAwardRequest `json:"awards"`
}

type CreateEventResponse struct {
	Event  Event   `json:"event"`
	Awards []Award `json:"awards"`
	Room   Room    `json:"room"`
}

type UpdateStatusEventRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type UpdateStatusEventResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RemoveEventRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type RemoveEventResponse struct {
	Event Event `json:"event"`
}

type UpdateEventRequest struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Price        *float64   `json:"price"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	HostIsActive *bool      `json:"host_is_active"`
}

type UpdateEventResponse struct {
	Event Event `json:"event"`
}

type GetEventRequest struct {
	ID string `json:"id"`
}

type GetEventResponse struct {
	Event Event `json:"event"`
}

type GetEventByUserRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type GetEventByUserResponse struct {
	Event Event `json:"event"`
}

type GetEventWithAwardsRequest struct {
	ID string `json:"id"`
}

type GetEventWithAwardsResponse struct {
	Event EventWithAwards `json:"event"`
}

type GetListEventRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type GetListEventByStatusRequest struct {
	Status string `json:"status"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type GetListEventByUserRequest struct {
	UserID string `json:"user_id"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type GetListEventByUserAndStatusRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type GetListEventByUserWithAwardsRequest struct {
	UserID string `json:"user_id"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type GetListEventResponse struct {
	Data []Event `json:"data"`
	Meta Meta    `json:"meta"`
}

type GetListEventWithAwardsResponse struct {
	Data []EventWithAwards `json:"data"`
	Meta Meta              `json:"meta"`
}

// EventNotification is published on the event topic after every mutation of
// an event.
type EventNotification struct {
	Type    string    `json:"type"`
	EventID string    `json:"event_id"`
	OwnerID string    `json:"owner_id"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

const (
	EventCreatedNotification       = "event_created"
	EventUpdatedNotification       = "event_updated"
	EventStatusChangedNotification = "event_status_changed"
	EventDeletedNotification       = "event_deleted"
)
