package entity

import (
	"context"

	"github.com/livebingo/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Event{},
		&Award{},
		&Card{},
	)
}
