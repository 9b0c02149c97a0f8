package domain

import (
	"testing"

	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_awardDomain_Update(t *testing.T) {
	name := "Big teddy bear"
	invalidCard := testutil.Card2.ID

	tests := []struct {
		name    string
		req     *model.UpdateAwardRequest
		wantErr error
	}{
		{
			name: "happy case",
			req: &model.UpdateAwardRequest{
				ID:     testutil.Award1.ID,
				UserID: testutil.User1,
				Name:   &name,
			},
		},
		{
			name: "not owner",
			req: &model.UpdateAwardRequest{
				ID:     testutil.Award1.ID,
				UserID: testutil.User2,
				Name:   &name,
			},
			wantErr: errorx.New(errorx.PermissionDenied, "Permission denied"),
		},
		{
			name: "claimed award",
			req: &model.UpdateAwardRequest{
				ID:     testutil.Award2.ID,
				UserID: testutil.User2,
				Name:   &name,
			},
			wantErr: errorx.New(errorx.Conflict, "Award has already been claimed"),
		},
		{
			name: "card of another event",
			req: &model.UpdateAwardRequest{
				ID:     testutil.Award1.ID,
				UserID: testutil.User1,
				GameID: &invalidCard,
			},
			wantErr: errorx.New(errorx.BadRequest, "Card is not a sold card of the event"),
		},
		{
			name: "not found award",
			req: &model.UpdateAwardRequest{
				ID:     "invalid-award",
				UserID: testutil.User1,
			},
			wantErr: errorx.New(errorx.NotFound, "Not found award"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)

			// Warm the cache up.
			_, err := s.awardDomain.GetListByEvent(s.ctx, &model.GetListAwardByEventRequest{
				EventID: testutil.Award1.EventID,
			})
			require.NoError(t, err)

			got, err := s.awardDomain.Update(s.ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, name, got.Award.Name)

			list, err := s.awardDomain.GetListByEvent(s.ctx, &model.GetListAwardByEventRequest{
				EventID: testutil.Award1.EventID,
			})
			require.NoError(t, err)
			require.Len(t, list.Data, 1)
			require.Equal(t, name, list.Data[0].Name)
		})
	}
}

func Test_awardDomain_Remove(t *testing.T) {
	s := newSuite(t)

	_, err := s.awardDomain.Remove(s.ctx, &model.RemoveAwardRequest{
		ID:     testutil.Award2.ID,
		UserID: testutil.User2,
	})
	require.Equal(t, errorx.New(errorx.Conflict, "Award has already been claimed"), err)

	got, err := s.awardDomain.Remove(s.ctx, &model.RemoveAwardRequest{
		ID:     testutil.Award1.ID,
		UserID: testutil.User1,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Award1.ID, got.Award.ID)

	_, err = s.awardDomain.Get(s.ctx, &model.GetAwardRequest{ID: testutil.Award1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found award"), err)
}

func Test_awardDomain_Remove_EventNotPending(t *testing.T) {
	s := newSuite(t)

	awards, err := s.awardDomain.CreateBatch(s.ctx, testutil.Event2.ID, []model.CreateAwardRequest{{Name: "Cup"}})
	require.NoError(t, err)
	require.Len(t, awards, 1)

	_, err = s.awardDomain.Remove(s.ctx, &model.RemoveAwardRequest{
		ID:     awards[0].ID,
		UserID: testutil.User1,
	})
	require.Equal(t, errorx.New(errorx.Conflict, "Event is not pending"), err)
}

func Test_awardDomain_GetListWinnerByEvent(t *testing.T) {
	s := newSuite(t)

	got, err := s.awardDomain.GetListWinnerByEvent(s.ctx, &model.GetListWinnerByEventRequest{
		EventID: testutil.Event3.ID,
	})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	require.Equal(t, testutil.Award2.ID, got.Data[0].ID)
	require.Equal(t, testutil.Card2.Buyer, got.Data[0].Winner)

	got, err = s.awardDomain.GetListWinnerByEvent(s.ctx, &model.GetListWinnerByEventRequest{
		EventID: testutil.Event1.ID,
	})
	require.NoError(t, err)
	require.Empty(t, got.Data)
}

func Test_awardDomain_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.CreateEventAwardRequest
		wantErr error
	}{
		{
			name: "happy case",
			req: &model.CreateEventAwardRequest{
				EventID:     testutil.Event1.ID,
				UserID:      testutil.User1,
				Name:        "Kite",
				Description: "A red kite",
			},
		},
		{
			name: "empty name",
			req: &model.CreateEventAwardRequest{
				EventID: testutil.Event1.ID,
				UserID:  testutil.User1,
			},
			wantErr: errorx.New(errorx.BadRequest, "Require name"),
		},
		{
			name: "not owner",
			req: &model.CreateEventAwardRequest{
				EventID: testutil.Event1.ID,
				UserID:  testutil.User2,
				Name:    "Kite",
			},
			wantErr: errorx.New(errorx.PermissionDenied, "Permission denied"),
		},
		{
			name: "event is running",
			req: &model.CreateEventAwardRequest{
				EventID: testutil.Event2.ID,
				UserID:  testutil.User1,
				Name:    "Kite",
			},
			wantErr: errorx.New(errorx.Conflict, "Event is not pending"),
		},
		{
			name: "not found event",
			req: &model.CreateEventAwardRequest{
				EventID: "invalid-event",
				UserID:  testutil.User1,
				Name:    "Kite",
			},
			wantErr: errorx.New(errorx.NotFound, "Not found event"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)

			// Warm the cache up.
			before, err := s.awardDomain.GetListByEvent(s.ctx, &model.GetListAwardByEventRequest{
				EventID: testutil.Event1.ID,
			})
			require.NoError(t, err)

			got, err := s.awardDomain.Create(s.ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.req.Name, got.Award.Name)
			require.Equal(t, tt.req.EventID, got.Award.EventID)

			after, err := s.awardDomain.GetListByEvent(s.ctx, &model.GetListAwardByEventRequest{
				EventID: testutil.Event1.ID,
			})
			require.NoError(t, err)
			require.Len(t, after.Data, len(before.Data)+1)
		})
	}
}
