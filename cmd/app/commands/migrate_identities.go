package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
)

// RunMigrateIdentities converts the bootstrap-era rows of one role table: plaintext
// identifiers are hashed and cleared, plaintext passwords hashed and emails encrypted.
// Running it again is a no-op. With dryRun the rows are only classified.
//
// Requirements: Database must be migrated and accessible.
func RunMigrateIdentities(
	ctx context.Context,
	useCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	roleName string,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	role, err := identityDomain.ParseRole(roleName)
	if err != nil {
		return err
	}

	logger.Info("migrating identities",
		slog.String("role", role.String()),
		slog.Bool("dry_run", dryRun),
	)

	report, err := useCase.Migrate(ctx, role, dryRun)
	if err != nil {
		return fmt.Errorf("failed to migrate identities: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"role":     report.Role,
			"scanned":  report.Scanned,
			"migrated": report.Migrated,
			"skipped":  report.Skipped,
			"dry_run":  report.DryRun,
		})
	} else {
		outputMigrateIdentitiesText(report, writer)
	}

	logger.Info("identity migration completed",
		slog.String("role", role.String()),
		slog.Int("scanned", report.Scanned),
		slog.Int("migrated", report.Migrated),
		slog.Int("skipped", report.Skipped),
	)

	return nil
}

func outputMigrateIdentitiesText(report *identityDomain.MigrationReport, writer io.Writer) {
	verb := "Migrated"
	if report.DryRun {
		verb = "Dry-run mode: would migrate"
	}
	_, _ = fmt.Fprintf(writer, "%s %d of %d %s row(s), %d already protected\n",
		verb, report.Migrated, report.Scanned, report.Role, report.Skipped)
}
