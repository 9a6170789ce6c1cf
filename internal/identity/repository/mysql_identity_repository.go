package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// MySQLIdentityRepository implements identity persistence for MySQL.
type MySQLIdentityRepository struct {
	db *sql.DB
}

// GetByIdentifierHash fetches the identity whose identifier_hash equals hash.
// Returns ErrIdentityNotFound when no row matches and ErrAmbiguousIdentity when
// more than one does.
func (m *MySQLIdentityRepository) GetByIdentifierHash(
	ctx context.Context,
	role identityDomain.Role,
	hash string,
) (*identityDomain.Identity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(
		`SELECT id, identifier_hash, password, email, name, lastname, %s
		 FROM %s WHERE identifier_hash = ? LIMIT 2`,
		table.classColumn("NULL"),
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
func (m *MySQLIdentityRepository) Get(
	ctx context.Context,
	role identityDomain.Role,
	id int64,
) (*identityDomain.Identity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(
		`SELECT id, COALESCE(identifier_hash, ''), password, email, name, lastname, %s
		 FROM %s WHERE id = ?`,
		table.classColumn("NULL"),
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
func (m *MySQLIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	table, err := tableForRole(identity.Role)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, m.db)

	var result sql.Result
	if table.hasClass {
		result, err = querier.ExecContext(
			ctx,
			`INSERT INTO students (identifier_hash, password, email, name, lastname, class_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			identity.IdentifierHash,
			identity.PasswordHash,
			nullableString(identity.EncryptedEmail),
			identity.Name,
			identity.Lastname,
			nullableInt64(identity.ClassID),
		)
	} else {
		result, err = querier.ExecContext(
			ctx,
			`INSERT INTO teachers (identifier_hash, password, email, name, lastname)
			 VALUES (?, ?, ?, ?, ?)`,
			identity.IdentifierHash,
			identity.PasswordHash,
			nullableString(identity.EncryptedEmail),
			identity.Name,
			identity.Lastname,
		)
	}
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return identityDomain.ErrIdentityAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create identity")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read identity id")
	}
	identity.ID = id
	return nil
}

// ListLegacy returns every row of the role table with its bootstrap-era columns.
func (m *MySQLIdentityRepository) ListLegacy(
	ctx context.Context,
	role identityDomain.Role,
) ([]*identityDomain.LegacyIdentity, error) {
	table, err := tableForRole(role)
	if err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLIdentityRepository) UpdateLegacy(
	ctx context.Context,
	role identityDomain.Role,
	legacy *identityDomain.LegacyIdentity,
) error {
	table, err := tableForRole(role)
	if err != nil {
		return err
	}
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(
		`UPDATE %s SET identifier_hash = ?, password = ?, email = ?, tc = NULL WHERE id = ?`,
		table.name,
	)

	_, err = querier.ExecContext(ctx, query, legacy.IdentifierHash, legacy.Password, legacy.Email, legacy.ID)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return identityDomain.ErrIdentityAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update identity")
	}
	return nil
}

// NewMySQLIdentityRepository creates a new MySQL identity repository.
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{db: db}
}
