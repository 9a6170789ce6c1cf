package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rahats/school/cmd/app/commands"
	"github.com/rahats/school/internal/app"
	"github.com/rahats/school/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate the field encryption key and session signing secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateEncryptionKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
