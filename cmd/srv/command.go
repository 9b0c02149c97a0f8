package main

import (
	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Bingo"
	s.app.Usage = "Live bingo event backend"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to the toml configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Before = func(cctx *cli.Context) error {
		if err := s.loadConfig(cctx.String("config")); err != nil {
			return err
		}

		s.loadLogger()
		return nil
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis and live sessions.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate the database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "Run only the given version, all versions are run if it is empty",
				},
			},
			Category:    "Database",
			Description: `Used to create or upgrade the tables of the database.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Used to start worker that consumes event notifications and closes the rooms of finished events.`,
		},
	}
}
