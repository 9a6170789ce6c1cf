package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// MySQLRevokedSessionRepository implements the session denylist for MySQL.
type MySQLRevokedSessionRepository struct {
	db *sql.DB
}

// Create adds a session id to the denylist. Revoking twice is not an error.
func (m *MySQLRevokedSessionRepository) Create(ctx context.Context, session *identityDomain.RevokedSession) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(
		ctx,
		`INSERT INTO revoked_sessions (id, expires_at, revoked_at) VALUES (?, ?, ?)`,
		session.ID,
		session.ExpiresAt,
		session.RevokedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil
		}
		return apperrors.Wrap(err, "failed to revoke session")
	}
	return nil
}

// IsRevoked reports whether sessionID is on the denylist.
func (m *MySQLRevokedSessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	var exists int
	err := querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM revoked_sessions WHERE id = ?`,
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
func (m *MySQLRevokedSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM revoked_sessions WHERE expires_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired revoked sessions")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted revoked sessions")
	}
	return count, nil
}

// NewMySQLRevokedSessionRepository creates a new MySQL revoked session repository.
func NewMySQLRevokedSessionRepository(db *sql.DB) *MySQLRevokedSessionRepository {
	return &MySQLRevokedSessionRepository{db: db}
}
