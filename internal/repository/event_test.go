package repository_test

import (
	"testing"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_eventRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	eventRepo := repository.NewEventRepository()

	tests := []struct {
		name    string
		filter  repository.GetListEventFilter
		wantIDs []string
		wantCnt int64
	}{
		{
			name:    "all",
			filter:  repository.GetListEventFilter{},
			wantIDs: []string{testutil.Event3.ID, testutil.Event2.ID, testutil.Event1.ID},
			wantCnt: 3,
		},
		{
			name:    "by user",
			filter:  repository.GetListEventFilter{UserID: testutil.User1},
			wantIDs: []string{testutil.Event2.ID, testutil.Event1.ID},
			wantCnt: 2,
		},
		{
			name:    "by user and status",
			filter:  repository.GetListEventFilter{UserID: testutil.User1, Status: entity.EventPending},
			wantIDs: []string{testutil.Event1.ID},
			wantCnt: 1,
		},
		{
			name:    "paginated",
			filter:  repository.GetListEventFilter{Offset: 1, Limit: 1},
			wantIDs: []string{testutil.Event2.ID},
			wantCnt: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := eventRepo.GetList(ctx, tt.filter)
			require.NoError(t, err)

			ids := []string{}
			for _, e := range events {
				ids = append(ids, e.ID)
			}
			require.Equal(t, tt.wantIDs, ids)

			count, err := eventRepo.Count(ctx, tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.wantCnt, count)
		})
	}
}

func Test_eventRepository_UpdateAndDelete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	eventRepo := repository.NewEventRepository()

	err := eventRepo.UpdateByID(ctx, testutil.Event1.ID, map[string]any{
		"price":          float64(4),
		"host_is_active": false,
	})
	require.NoError(t, err)

	event, err := eventRepo.GetByID(ctx, testutil.Event1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(4), event.Price)

	err = eventRepo.UpdateByID(ctx, "unknown", map[string]any{"price": float64(1)})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = eventRepo.DeleteByIDAndUserID(ctx, testutil.Event1.ID, testutil.User2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = eventRepo.DeleteByIDAndUserID(ctx, testutil.Event1.ID, testutil.User1)
	require.NoError(t, err)

	_, err = eventRepo.GetByID(ctx, testutil.Event1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
