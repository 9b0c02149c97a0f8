package migration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/logger"
	"github.com/livebingo/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx := xcontext.WithLogger(context.Background(), logger.NewNopLogger())
	return xcontext.WithDB(ctx, db)
}

func TestVersions(t *testing.T) {
	require.Equal(t, []string{"0000", "0001"}, Versions())
	require.Error(t, Migrate(context.Background(), "9999"))
}

func TestMigrate0001(t *testing.T) {
	ctx := newContext(t)
	migrator := xcontext.DB(ctx).Migrator()
	require.NoError(t, migrator.CreateTable(&Card0{}))
	require.False(t, migrator.HasIndex(&Card1{}, "idx_card_event_nums"))

	require.NoError(t, Migrate(ctx, "0001"))
	require.True(t, migrator.HasColumn(&Card1{}, "nums_hash"))
	require.True(t, migrator.HasIndex(&Card1{}, "idx_card_event_nums"))

	// Running it again is a no-op.
	require.NoError(t, Migrate(ctx, "0001"))
}

func TestMigrate0001_BackfillsExistingCards(t *testing.T) {
	ctx := newContext(t)
	db := xcontext.DB(ctx)
	require.NoError(t, db.Migrator().CreateTable(&Card0{}))

	grid := func(shift int) entity.Grid {
		var g entity.Grid
		for col := 0; col < entity.GridSize; col++ {
			for row := 0; row < entity.GridSize; row++ {
				g[col][row] = entity.Cell{Number: col*15 + row + 1 + shift}
			}
		}
		return g
	}

	cards := []struct {
		id      string
		eventID string
		grid    entity.Grid
	}{
		{id: "card-a", eventID: "event1", grid: grid(0)},
		{id: "card-b", eventID: "event1", grid: grid(0)},
		{id: "card-c", eventID: "event1", grid: grid(1)},
		{id: "card-d", eventID: "event2", grid: grid(0)},
	}

	for _, c := range cards {
		nums, err := json.Marshal(c.grid)
		require.NoError(t, err)
		require.NoError(t, db.Create(&Card0{Base0: Base0{ID: c.id}, EventID: c.eventID, Nums: string(nums)}).Error)
	}

	require.NoError(t, Migrate(ctx, "0001"))

	hashes := map[string]string{}
	var migrated []Card1
	require.NoError(t, db.Find(&migrated).Error)
	require.Len(t, migrated, len(cards))
	for _, c := range migrated {
		require.NotEmpty(t, c.NumsHash, c.ID)
		hashes[c.ID] = c.NumsHash
	}

	require.Equal(t, grid(0).Hash(), hashes["card-a"])
	require.NotEqual(t, grid(0).Hash(), hashes["card-b"])
	require.Equal(t, grid(1).Hash(), hashes["card-c"])
	require.Equal(t, grid(0).Hash(), hashes["card-d"])

	// A new card can not reuse the grid of an existing card.
	nums, err := json.Marshal(grid(1))
	require.NoError(t, err)
	err = db.Create(&Card1{
		Base0:    Base0{ID: "card-e"},
		EventID:  "event1",
		Nums:     string(nums),
		NumsHash: grid(1).Hash(),
	}).Error
	require.Error(t, err)
}

func TestMigrate0000(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, Migrate(ctx, "0000"))
	require.NoError(t, Migrate(ctx, "0001"))

	migrator := xcontext.DB(ctx).Migrator()
	for _, table := range []string{"events", "awards", "cards"} {
		require.True(t, migrator.HasTable(table), table)
	}
}
