package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/testutil"
	"github.com/livebingo/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_eventDomain_Create(t *testing.T) {
	startTime := time.Now().Add(48 * time.Hour)
	endTime := startTime.Add(-time.Hour)

	tests := []struct {
		name    string
		req     *model.CreateEventRequest
		wantErr error
	}{
		{
			name: "happy case",
			req: &model.CreateEventRequest{
				UserID:    testutil.User3,
				Name:      "Sunday bingo",
				Price:     1.25,
				StartTime: startTime,
				Awards: []model.CreateAwardRequest{
					{Name: "Car"},
					{Name: "Phone", Description: "A brand new phone"},
				},
			},
		},
		{
			name: "empty name",
			req: &model.CreateEventRequest{
				UserID:    testutil.User3,
				Price:     1,
				StartTime: startTime,
			},
			wantErr: errorx.New(errorx.BadRequest, "Require name"),
		},
		{
			name: "negative price",
			req: &model.CreateEventRequest{
				UserID:    testutil.User3,
				Name:      "Sunday bingo",
				Price:     -1,
				StartTime: startTime,
			},
			wantErr: errorx.New(errorx.BadRequest, "Price must be a positive number"),
		},
		{
			name: "end before start",
			req: &model.CreateEventRequest{
				UserID:    testutil.User3,
				Name:      "Sunday bingo",
				Price:     1,
				StartTime: startTime,
				EndTime:   &endTime,
			},
			wantErr: errorx.New(errorx.BadRequest, "End time must be after start time"),
		},
		{
			name: "award without name",
			req: &model.CreateEventRequest{
				UserID:    testutil.User3,
				Name:      "Sunday bingo",
				Price:     1,
				StartTime: startTime,
				Awards:    []model.CreateAwardRequest{{Name: "Car"}, {}},
			},
			wantErr: errorx.New(errorx.BadRequest, "Require name of award 2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)

			got, err := s.eventDomain.Create(s.ctx, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, string(entity.EventPending), got.Event.Status)
			require.Equal(t, tt.req.Name, got.Event.Name)
			require.Len(t, got.Awards, len(tt.req.Awards))
			require.Equal(t, got.Event.ID, got.Room.EventID)

			event, err := s.eventRepo.GetByID(s.ctx, got.Event.ID)
			require.NoError(t, err)
			require.Equal(t, tt.req.UserID, event.UserID)

			awards, err := s.awardRepo.GetByEventID(s.ctx, got.Event.ID)
			require.NoError(t, err)
			require.Len(t, awards, len(tt.req.Awards))

			packs := s.publisher.Packs()
			require.Len(t, packs, 1)

			var notification model.EventNotification
			require.NoError(t, json.Unmarshal(packs[0].Msg, &notification))
			require.Equal(t, model.EventCreatedNotification, notification.Type)
			require.Equal(t, got.Event.ID, notification.EventID)
		})
	}
}

func Test_eventDomain_Create_RoomFailureCompensates(t *testing.T) {
	s := newSuite(t)
	s.allocator.AllocateRoomFunc = func(context.Context, model.AllocateRoomRequest) (*model.Room, error) {
		return nil, errors.New("room service is down")
	}

	_, err := s.eventDomain.Create(s.ctx, &model.CreateEventRequest{
		UserID:    testutil.User3,
		Name:      "Doomed bingo",
		Price:     1,
		StartTime: time.Now().Add(time.Hour),
		Awards:    []model.CreateAwardRequest{{Name: "Car"}, {Name: "Phone"}},
	})
	require.Equal(t, errorx.New(errorx.Internal, "Cannot create event"), err)

	total, err := s.eventRepo.Count(s.ctx, repository.GetListEventFilter{UserID: testutil.User3})
	require.NoError(t, err)
	require.Zero(t, total)

	var awards int64
	require.NoError(t, xcontext.DB(s.ctx).Model(&entity.Award{}).Count(&awards).Error)
	require.Equal(t, int64(len(testutil.Awards)), awards)

	require.Empty(t, s.publisher.Packs())
}

func Test_eventDomain_Create_CanceledRequestCompensates(t *testing.T) {
	s := newSuite(t)
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.allocator.AllocateRoomFunc = func(context.Context, model.AllocateRoomRequest) (*model.Room, error) {
		cancel()
		return nil, context.Canceled
	}

	_, err := s.eventDomain.Create(ctx, &model.CreateEventRequest{
		UserID:    testutil.User3,
		Name:      "Abandoned bingo",
		Price:     1,
		StartTime: time.Now().Add(time.Hour),
		Awards:    []model.CreateAwardRequest{{Name: "Car"}},
	})
	require.Equal(t, errorx.New(errorx.Internal, "Cannot create event"), err)

	total, err := s.eventRepo.Count(s.ctx, repository.GetListEventFilter{UserID: testutil.User3})
	require.NoError(t, err)
	require.Zero(t, total)

	var awards int64
	require.NoError(t, xcontext.DB(s.ctx).Model(&entity.Award{}).Count(&awards).Error)
	require.Equal(t, int64(len(testutil.Awards)), awards)
}

func Test_eventDomain_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(s *suite)
		req        *model.UpdateStatusEventRequest
		want       *model.UpdateStatusEventResponse
		wantErr    error
		wantStatus entity.EventStatus
	}{
		{
			name: "pending event cannot start",
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event1.ID,
				UserID: testutil.User1,
				Status: string(entity.EventNow),
			},
			wantErr:    errorx.New(errorx.PermissionDenied, "Event is not NOW"),
			wantStatus: entity.EventPending,
		},
		{
			name: "not owner",
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event2.ID,
				UserID: testutil.User2,
				Status: string(entity.EventCompleted),
			},
			wantErr:    errorx.New(errorx.PermissionDenied, "Permission denied"),
			wantStatus: entity.EventNow,
		},
		{
			name: "completed is terminal",
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event3.ID,
				UserID: testutil.User2,
				Status: string(entity.EventNow),
			},
			wantErr:    errorx.New(errorx.Conflict, "Event has already completed"),
			wantStatus: entity.EventCompleted,
		},
		{
			name: "running event completes",
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event2.ID,
				UserID: testutil.User1,
				Status: string(entity.EventCompleted),
			},
			want: &model.UpdateStatusEventResponse{
				Status:  string(entity.EventCompleted),
				Message: "Event is COMPLETED",
			},
			wantStatus: entity.EventCompleted,
		},
		{
			name: "event of today starts",
			setup: func(s *suite) {
				err := s.eventRepo.UpdateByID(s.ctx, testutil.Event1.ID, map[string]any{
					"status":     entity.EventToday,
					"start_time": time.Now().Add(-time.Minute),
				})
				require.NoError(t, err)
			},
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event1.ID,
				UserID: testutil.User1,
				Status: string(entity.EventNow),
			},
			want: &model.UpdateStatusEventResponse{
				Status:  string(entity.EventNow),
				Message: "Event is NOW",
			},
			wantStatus: entity.EventNow,
		},
		{
			name: "programmed is not manual",
			req: &model.UpdateStatusEventRequest{
				ID:     testutil.Event1.ID,
				UserID: testutil.User1,
				Status: string(entity.EventProgrammed),
			},
			wantErr:    errorx.New(errorx.PermissionDenied, "Event can not be programmed manually"),
			wantStatus: entity.EventPending,
		},
		{
			name: "not found event",
			req: &model.UpdateStatusEventRequest{
				ID:     "invalid-event",
				UserID: testutil.User1,
				Status: string(entity.EventNow),
			},
			wantErr: errorx.New(errorx.NotFound, "Not found event"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			if tt.setup != nil {
				tt.setup(s)
			}

			got, err := s.eventDomain.UpdateStatus(s.ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				require.Empty(t, s.publisher.Packs())
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				require.Len(t, s.publisher.Packs(), 1)
			}

			if tt.wantStatus == "" {
				return
			}

			event, err := s.eventRepo.GetByID(s.ctx, tt.req.ID)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, event.Status)

			cached, err := s.eventDomain.Get(s.ctx, &model.GetEventRequest{ID: tt.req.ID})
			require.NoError(t, err)
			require.Equal(t, string(tt.wantStatus), cached.Event.Status)
		})
	}
}

func Test_eventDomain_Remove(t *testing.T) {
	t.Run("event with players", func(t *testing.T) {
		s := newSuite(t)

		_, err := s.eventDomain.Remove(s.ctx, &model.RemoveEventRequest{
			ID:     testutil.Event2.ID,
			UserID: testutil.User1,
		})
		require.Equal(t, errorx.New(errorx.Conflict, "Event already has players"), err)

		_, err = s.eventRepo.GetByID(s.ctx, testutil.Event2.ID)
		require.NoError(t, err)
	})

	t.Run("not owner", func(t *testing.T) {
		s := newSuite(t)

		_, err := s.eventDomain.Remove(s.ctx, &model.RemoveEventRequest{
			ID:     testutil.Event1.ID,
			UserID: testutil.User2,
		})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})

	t.Run("happy case", func(t *testing.T) {
		s := newSuite(t)

		// Warm the cache up.
		_, err := s.eventDomain.Get(s.ctx, &model.GetEventRequest{ID: testutil.Event1.ID})
		require.NoError(t, err)

		got, err := s.eventDomain.Remove(s.ctx, &model.RemoveEventRequest{
			ID:     testutil.Event1.ID,
			UserID: testutil.User1,
		})
		require.NoError(t, err)
		require.Equal(t, testutil.Event1.ID, got.Event.ID)

		_, err = s.eventDomain.Get(s.ctx, &model.GetEventRequest{ID: testutil.Event1.ID})
		require.Equal(t, errorx.New(errorx.NotFound, "Not found event"), err)

		awards, err := s.awardRepo.GetByEventID(s.ctx, testutil.Event1.ID)
		require.NoError(t, err)
		require.Empty(t, awards)

		packs := s.publisher.Packs()
		require.Len(t, packs, 1)

		var notification model.EventNotification
		require.NoError(t, json.Unmarshal(packs[0].Msg, &notification))
		require.Equal(t, model.EventDeletedNotification, notification.Type)
	})
}

func Test_eventDomain_Update(t *testing.T) {
	s := newSuite(t)

	_, err := s.eventDomain.Get(s.ctx, &model.GetEventRequest{ID: testutil.Event1.ID})
	require.NoError(t, err)

	name := "Saturday bingo"
	price := 4.5
	got, err := s.eventDomain.Update(s.ctx, &model.UpdateEventRequest{
		ID:     testutil.Event1.ID,
		UserID: testutil.User1,
		Name:   &name,
		Price:  &price,
	})
	require.NoError(t, err)
	require.Equal(t, name, got.Event.Name)
	require.Equal(t, price, got.Event.Price)

	cached, err := s.eventDomain.Get(s.ctx, &model.GetEventRequest{ID: testutil.Event1.ID})
	require.NoError(t, err)
	require.Equal(t, name, cached.Event.Name)

	_, err = s.eventDomain.Update(s.ctx, &model.UpdateEventRequest{
		ID:     testutil.Event2.ID,
		UserID: testutil.User1,
		Name:   &name,
	})
	require.Equal(t, errorx.New(errorx.Conflict, "Event is not pending"), err)

	invalidPrice := 1.23456
	_, err = s.eventDomain.Update(s.ctx, &model.UpdateEventRequest{
		ID:     testutil.Event1.ID,
		UserID: testutil.User1,
		Price:  &invalidPrice,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Price must have at most 4 decimal places"), err)
}

func Test_eventDomain_GetList_ReadAfterWrite(t *testing.T) {
	s := newSuite(t)
	req := &model.GetListEventRequest{Page: 1, Limit: 10}

	before, err := s.eventDomain.GetList(s.ctx, req)
	require.NoError(t, err)
	require.Len(t, before.Data, len(testutil.Events))
	require.Equal(t, int64(len(testutil.Events)), before.Meta.Total)

	// Oldest first.
	require.Equal(t, testutil.Event3.ID, before.Data[0].ID)
	require.Equal(t, testutil.Event2.ID, before.Data[1].ID)
	require.Equal(t, testutil.Event1.ID, before.Data[2].ID)

	created, err := s.eventDomain.Create(s.ctx, &model.CreateEventRequest{
		UserID:    testutil.User3,
		Name:      "Next week bingo",
		Price:     2,
		StartTime: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	after, err := s.eventDomain.GetList(s.ctx, req)
	require.NoError(t, err)
	require.Len(t, after.Data, len(testutil.Events)+1)
	require.Equal(t, created.Event.ID, after.Data[len(after.Data)-1].ID)
}

func Test_eventDomain_GetListByUserAndStatus(t *testing.T) {
	s := newSuite(t)

	got, err := s.eventDomain.GetListByUserAndStatus(s.ctx, &model.GetListEventByUserAndStatusRequest{
		UserID: testutil.User1,
		Status: string(entity.EventNow),
	})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	require.Equal(t, testutil.Event2.ID, got.Data[0].ID)

	_, err = s.eventDomain.GetListByUserAndStatus(s.ctx, &model.GetListEventByUserAndStatusRequest{
		UserID: testutil.User1,
		Status: "ACTIVE",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid status ACTIVE"), err)

	_, err = s.eventDomain.GetList(s.ctx, &model.GetListEventRequest{Limit: 51})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit"), err)
}

func Test_eventDomain_GetWithAwards(t *testing.T) {
	s := newSuite(t)

	got, err := s.eventDomain.GetWithAwards(s.ctx, &model.GetEventWithAwardsRequest{ID: testutil.Event3.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Event3.ID, got.Event.ID)
	require.Len(t, got.Event.Awards, 1)
	require.Equal(t, testutil.Card2.Buyer, got.Event.Awards[0].Winner)

	list, err := s.eventDomain.GetListByUserWithAwards(s.ctx, &model.GetListEventByUserWithAwardsRequest{
		UserID: testutil.User1,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	for _, e := range list.Data {
		require.NotNil(t, e.Awards)
	}
}
