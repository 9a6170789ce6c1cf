package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLIdentityRepository implements identity persistence for PostgreSQL.
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// GetByIdentifierHash fetches the identity whose identifier_hash equals hash.
// Returns ErrIdentityNotFound when no row matches and ErrAmbiguousIdentity when
// more than one does.
func (p *PostgreSQLIdentityRepository) GetByIdentifierHash(
	ctx context.Context,
	role identityDomain.Role,
	hash string,
) (*identityDomain.Identity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`SELECT id, identifier_hash, password, email, name, lastname, %s
		 FROM %s WHERE identifier_hash = $1 LIMIT 2`,
		table.classColumn("NULL::BIGINT"),
		table.name,
	)

	rows, err := querier.QueryContext(ctx, query, hash)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get identity by identifier hash")
	}
	defer func() {
		_ = rows.Close()
	}()

	return singleIdentity(rows, role)
}

// Get fetches an identity by primary key.
func (p *PostgreSQLIdentityRepository) Get(
	ctx context.Context,
	role identityDomain.Role,
	id int64,
) (*identityDomain.Identity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`SELECT id, COALESCE(identifier_hash, ''), password, email, name, lastname, %s
		 FROM %s WHERE id = $1`,
		table.classColumn("NULL::BIGINT"),
		table.name,
	)

	identity, err := scanIdentity(querier.QueryRowContext(ctx, query, id), role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}
	return identity, nil
}

// Create inserts an identity and sets its generated ID.
func (p *PostgreSQLIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	table, err := tableForRole(identity.Role)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, p.db)

	var row *sql.Row
	if table.hasClass {
		row = querier.QueryRowContext(
			ctx,
			`INSERT INTO students (identifier_hash, password, email, name, lastname, class_id)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			identity.IdentifierHash,
			identity.PasswordHash,
			nullableString(identity.EncryptedEmail),
			identity.Name,
			identity.Lastname,
			nullableInt64(identity.ClassID),
		)
	} else {
		row = querier.QueryRowContext(
			ctx,
			`INSERT INTO teachers (identifier_hash, password, email, name, lastname)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			identity.IdentifierHash,
			identity.PasswordHash,
			nullableString(identity.EncryptedEmail),
			identity.Name,
			identity.Lastname,
		)
	}

	if err := row.Scan(&identity.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return identityDomain.ErrIdentityAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create identity")
	}
	return nil
}

// ListLegacy returns every row of the role table with its bootstrap-era columns.
func (p *PostgreSQLIdentityRepository) ListLegacy(
	ctx context.Context,
	role identityDomain.Role,
) ([]*identityDomain.LegacyIdentity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT id, tc, identifier_hash, password, email FROM %s ORDER BY id`, table.name)

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanLegacyRows(rows)
}

// UpdateLegacy writes the protected columns of a migrated row and clears tc.
func (p *PostgreSQLIdentityRepository) UpdateLegacy(
	ctx context.Context,
	role identityDomain.Role,
	legacy *identityDomain.LegacyIdentity,
) error {
	table, err := tableForRole(role)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`UPDATE %s SET identifier_hash = $1, password = $2, email = $3, tc = NULL WHERE id = $4`,
		table.name,
	)

	_, err = querier.ExecContext(ctx, query, legacy.IdentifierHash, legacy.Password, legacy.Email, legacy.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return identityDomain.ErrIdentityAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update identity")
	}
	return nil
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQL identity repository.
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{db: db}
}
