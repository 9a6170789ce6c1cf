package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rahats/school/cmd/app/commands"
	"github.com/rahats/school/internal/app"
	"github.com/rahats/school/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server and, when enabled, the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations, or roll back with --rollback",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:  "rollback",
					Usage: "Revert this many migrations instead of applying",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if steps := cmd.Int64("rollback"); cmd.IsSet("rollback") {
					return commands.RunRollback(container.Logger(), cfg.DBDriver, cfg.DBConnectionString, int(steps))
				}
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
