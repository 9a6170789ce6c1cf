package repository

import (
	"database/sql"

	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// singleIdentity reads at most two rows and enforces identifier hash uniqueness.
func singleIdentity(rows *sql.Rows, role identityDomain.Role) (*identityDomain.Identity, error) {
	var found *identityDomain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows, role)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity row")
		}
		if found != nil {
			return nil, identityDomain.ErrAmbiguousIdentity
		}
		found = identity
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating identity rows")
	}
	if found == nil {
		return nil, identityDomain.ErrIdentityNotFound
	}
	return found, nil
}

// scanLegacyRows reads id, tc, identifier_hash, password, email rows.
func scanLegacyRows(rows *sql.Rows) ([]*identityDomain.LegacyIdentity, error) {
	identities := make([]*identityDomain.LegacyIdentity, 0)
	for rows.Next() {
		var legacy identityDomain.LegacyIdentity
		var tc, hash, email sql.NullString

		if err := rows.Scan(&legacy.ID, &tc, &hash, &legacy.Password, &email); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity row")
		}
		if tc.Valid {
			legacy.LegacyIdentifier = &tc.String
		}
		if hash.Valid {
			legacy.IdentifierHash = &hash.String
		}
		if email.Valid {
			legacy.Email = &email.String
		}
		identities = append(identities, &legacy)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating identity rows")
	}
	return identities, nil
}
