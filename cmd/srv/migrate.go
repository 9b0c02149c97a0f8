package main

import (
	"github.com/livebingo/backend/migration"
	"github.com/livebingo/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.loadDatabase()

	versions := migration.Versions()
	if version := cctx.String("version"); version != "" {
		versions = []string{version}
	}

	for _, version := range versions {
		if err := migration.Migrate(s.ctx, version); err != nil {
			return err
		}

		xcontext.Logger(s.ctx).Infof("Migrated version %s", version)
	}

	return nil
}
