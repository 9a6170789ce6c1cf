package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// PostgreSQLRevokedSessionRepository implements the session denylist for PostgreSQL.
type PostgreSQLRevokedSessionRepository struct {
	db *sql.DB
}

// Create adds a session id to the denylist. Revoking twice is not an error.
func (p *PostgreSQLRevokedSessionRepository) Create(
	ctx context.Context,
	session *identityDomain.RevokedSession,
) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`INSERT INTO revoked_sessions (id, expires_at, revoked_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID,
		session.ExpiresAt,
		session.RevokedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke session")
	}
	return nil
}

// IsRevoked reports whether sessionID is on the denylist.
func (p *PostgreSQLRevokedSessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	var exists int
	err := querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM revoked_sessions WHERE id = $1`,
		sessionID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to check revoked session")
	}
	return true, nil
}

// DeleteExpired removes entries whose token expired before the given time.
func (p *PostgreSQLRevokedSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM revoked_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired revoked sessions")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted revoked sessions")
	}
	return count, nil
}

// NewPostgreSQLRevokedSessionRepository creates a new PostgreSQL revoked session repository.
func NewPostgreSQLRevokedSessionRepository(db *sql.DB) *PostgreSQLRevokedSessionRepository {
	return &PostgreSQLRevokedSessionRepository{db: db}
}
