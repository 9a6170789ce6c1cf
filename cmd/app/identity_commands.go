package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rahats/school/cmd/app/commands"
	"github.com/rahats/school/internal/app"
	"github.com/rahats/school/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getIdentityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-identity",
			Usage: "Create a student or teacher account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Account role: 'student' or 'teacher'",
				},
				&cli.StringFlag{
					Name:     "tc",
					Required: true,
					Usage:    "11-digit national identifier",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "First name",
				},
				&cli.StringFlag{
					Name:     "lastname",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Last name",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "Email address, stored encrypted",
				},
				&cli.Int64Flag{
					Name:  "class-id",
					Usage: "Class of a student",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to read it from stdin)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateIdentity(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.CreateIdentityParams{
						Role:       cmd.String("role"),
						Identifier: cmd.String("tc"),
						Password:   cmd.String("password"),
						Email:      cmd.String("email"),
						Name:       cmd.String("name"),
						Lastname:   cmd.String("lastname"),
						ClassID:    cmd.Int64("class-id"),
						Format:     cmd.String("format"),
					},
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "migrate-identities",
			Usage: "Hash plaintext identifiers and passwords and encrypt emails of existing rows",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Table to migrate: 'student' or 'teacher'",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"d"},
					Value:   false,
					Usage:   "Report what would change without writing",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunMigrateIdentities(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("role"),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-revoked-sessions",
			Usage: "Delete revoked session entries whose tokens have expired",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanRevokedSessions(
					ctx,
					authUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
