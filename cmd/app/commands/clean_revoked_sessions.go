package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	identityUseCase "github.com/rahats/school/internal/identity/usecase"
)

// RunCleanRevokedSessions deletes denylist entries whose tokens have expired anyway.
func RunCleanRevokedSessions(
	ctx context.Context,
	authUseCase identityUseCase.AuthUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning revoked sessions")

	count, err := authUseCase.PurgeRevokedSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean revoked sessions: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{"count": count})
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired revoked session(s)\n", count)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))
	return nil
}
