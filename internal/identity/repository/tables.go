// Package repository implements identity persistence for MySQL and PostgreSQL.
//
// Students and teachers live in separate tables. Table names are resolved from
// the role through a fixed whitelist and never from request input.
package repository

import (
	"database/sql"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// roleTable describes the table that stores one role partition.
type roleTable struct {
	name     string
	hasClass bool
}

// tableForRole resolves the table of a role. Unknown roles return ErrInvalidRole.
func tableForRole(role identityDomain.Role) (roleTable, error) {
	switch role {
	case identityDomain.RoleStudent:
		return roleTable{name: "students", hasClass: true}, nil
	case identityDomain.RoleTeacher:
		return roleTable{name: "teachers"}, nil
	default:
		return roleTable{}, identityDomain.ErrInvalidRole
	}
}

// classColumn returns the class_id select expression. Teachers have no class.
func (t roleTable) classColumn(nullExpr string) string {
	if t.hasClass {
		return "class_id"
	}
	return nullExpr
}

// identityScanner is satisfied by *sql.Row and *sql.Rows.
type identityScanner interface {
	Scan(dest ...any) error
}

// scanIdentity reads the columns id, identifier_hash, password, email, name, lastname, class_id.
func scanIdentity(s identityScanner, role identityDomain.Role) (*identityDomain.Identity, error) {
	var identity identityDomain.Identity
	var email sql.NullString
	var classID sql.NullInt64

	if err := s.Scan(
		&identity.ID,
		&identity.IdentifierHash,
		&identity.PasswordHash,
		&email,
		&identity.Name,
		&identity.Lastname,
		&classID,
	); err != nil {
		return nil, err
	}

	identity.Role = role
	identity.EncryptedEmail = email.String
	if classID.Valid {
		id := classID.Int64
		identity.ClassID = &id
	}
	return &identity, nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullableInt64 maps nil to SQL NULL.
func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
