package entity

import (
	"database/sql"
	"time"

	"github.com/livebingo/backend/pkg/enum"
)

type EventStatus string

var (
	EventPending    = enum.New(EventStatus("PENDING"), "PENDING")
	EventProgrammed = enum.New(EventStatus("PROGRAMMED"), "PROGRAMMED")
	EventToday      = enum.New(EventStatus("TODAY"), "TODAY")
	EventNow        = enum.New(EventStatus("NOW"), "NOW")
	EventCompleted  = enum.New(EventStatus("COMPLETED"), "COMPLETED")
)

type Event struct {
	Base

	Name         string
	Description  string
	UserID       string `gorm:"index;size:36"`
	Price        float64
	Status       EventStatus `gorm:"index;size:16"`
	StartTime    time.Time
	EndTime      sql.NullTime
	HostIsActive bool
}
