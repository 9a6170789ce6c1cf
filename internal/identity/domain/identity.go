// Package domain defines the identity models of the school backend: students and
// teachers who log in with a national identifier, and the principal that an
// authenticated request carries.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// IdentifierLength is the number of digits of a national identifier.
const IdentifierLength = 11

// Role partitions identities. Each role is stored in its own table.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Roles lists every supported role.
var Roles = []Role{RoleStudent, RoleTeacher}

// ParseRole converts a raw role string. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	default:
		return "", ErrInvalidRole
	}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Identity is a stored student or teacher record.
//
// The plaintext identifier is never kept: IdentifierHash is the only lookup key and
// EncryptedEmail holds a field cipher envelope ("" means no value).
type Identity struct {
	ID             int64
	Role           Role
	IdentifierHash string
	PasswordHash   string `json:"-"` //nolint:gosec // argon2id PHC string
	EncryptedEmail string
	Name           string
	Lastname       string
	ClassID        *int64
}

// LegacyIdentity is a row that may still carry bootstrap-era plaintext columns.
// Only the migrate-identities command reads it.
type LegacyIdentity struct {
	ID               int64
	LegacyIdentifier *string
	IdentifierHash   *string
	Password         string //nolint:gosec // plaintext or PHC string
	Email            *string
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	SubjectID int64
	Role      Role
	SessionID string
	ExpiresAt time.Time
}

// Is reports whether the principal is the given subject of the given role.
func (p *Principal) Is(role Role, subjectID int64) bool {
	return p != nil && p.Role == role && p.SubjectID == subjectID
}

// Subject is the client-facing view of an identity. Email is omitted when empty.
type Subject struct {
	ID       int64  `json:"id"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email,omitempty"`
}

// NormalizeIdentifier trims surrounding whitespace and requires exactly
// IdentifierLength ASCII digits.
func NormalizeIdentifier(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) != IdentifierLength {
		return "", ErrInvalidIdentifier
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrInvalidIdentifier
		}
	}
	return s, nil
}

// FormatSubjectID encodes a subject id for the token "sub" claim.
func FormatSubjectID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseSubjectID decodes a "sub" claim. Only positive ids are valid.
func ParseSubjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrSessionMalformed
	}
	return id, nil
}
