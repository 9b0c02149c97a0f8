// Package eventstate validates the status transitions of an event.
//
// The lifecycle is PENDING -> PROGRAMMED -> TODAY -> NOW -> COMPLETED.
// PROGRAMMED is only reached by editing the schedule of a pending event, and
// COMPLETED is terminal.
package eventstate

import (
	"fmt"
	"time"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/errorx"

	"golang.org/x/exp/slices"
)

// Result describes the persisted changes of an accepted transition.
type Result struct {
	Status    entity.EventStatus
	StartTime time.Time
	Message   string
}

var todaySources = []entity.EventStatus{entity.EventPending, entity.EventProgrammed}

// Transition checks whether actorID can move event to target at now. The
// event is not modified.
func Transition(event *entity.Event, target entity.EventStatus, actorID string, now time.Time) (*Result, error) {
	if event.UserID != actorID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if event.Status == entity.EventCompleted {
		return nil, errorx.New(errorx.Conflict, "Event has already completed")
	}

	now = now.UTC()
	startTime := event.StartTime.UTC()
	result := &Result{
		Status:    target,
		StartTime: startTime,
		Message:   fmt.Sprintf("Event is %s", target),
	}

	switch target {
	case entity.EventToday:
		if !slices.Contains(todaySources, event.Status) || !SameDate(startTime, now) {
			return nil, errorx.New(errorx.PermissionDenied, "Event is not TODAY")
		}

	case entity.EventNow:
		if event.Status != entity.EventToday || startTime.After(now) {
			return nil, errorx.New(errorx.PermissionDenied, "Event is not NOW")
		}

		// The actual activation time replaces the scheduled one.
		result.StartTime = now

	case entity.EventCompleted:
		if event.Status != entity.EventNow || !startTime.Before(now) {
			return nil, errorx.New(errorx.PermissionDenied, "Event is not COMPLETED")
		}

	case entity.EventProgrammed:
		return nil, errorx.New(errorx.PermissionDenied, "Event can not be programmed manually")

	default:
		return nil, errorx.New(errorx.PermissionDenied, "Invalid status %s", target)
	}

	return result, nil
}

// SameDate returns true if a and b are in the same UTC calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ScheduleStatus is the status of a pending event after its schedule has been
// edited.
func ScheduleStatus(event *entity.Event, startTimeChanged bool) entity.EventStatus {
	if startTimeChanged && (event.Status == entity.EventPending || event.Status == entity.EventProgrammed) {
		return entity.EventProgrammed
	}

	return event.Status
}
