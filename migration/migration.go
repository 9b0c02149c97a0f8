package migration

import (
	"context"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var Migrators = map[string]func(context.Context) error{
	"0000": migrate0000,
	"0001": migrate0001,
}

// Versions returns the known versions in ascending order.
func Versions() []string {
	versions := maps.Keys(Migrators)
	slices.Sort(versions)
	return versions
}

func Migrate(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	return migrator(ctx)
}
