package dto

import (
	"time"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// SubjectResponse is the client-facing view of an authenticated identity.
type SubjectResponse struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email,omitempty"`
}

// MapSubjectToResponse converts a domain subject to an API response.
func MapSubjectToResponse(subject *identityDomain.Subject) SubjectResponse {
	return SubjectResponse{
		ID:       subject.ID,
		Role:     subject.Role.String(),
		Name:     subject.Name,
		Lastname: subject.Lastname,
		Email:    subject.Email,
	}
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success   bool            `json:"success"`
	Token     string          `json:"token"` //nolint:gosec // issued session token
	ExpiresAt time.Time       `json:"expires_at"`
	User      SubjectResponse `json:"user"`
}

// MapLoginOutputToResponse converts a login output to an API response.
func MapLoginOutputToResponse(output *identityDomain.LoginOutput) LoginResponse {
	return LoginResponse{
		Success:   true,
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
		User:      MapSubjectToResponse(&output.Subject),
	}
}
