package domain

import "time"

// Session is a freshly issued session token.
type Session struct {
	Token     string //nolint:gosec // bearer token returned to the client once
	ID        string
	SubjectID int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RevokedSession is a denylist entry keyed by the token id (jti).
// Entries are kept until ExpiresAt, after which the token is rejected as expired anyway.
type RevokedSession struct {
	ID        string
	ExpiresAt time.Time
	RevokedAt time.Time
}
