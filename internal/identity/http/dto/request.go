// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	customValidation "github.com/rahats/school/internal/validation"
)

// LoginRequest contains the credentials submitted to the login endpoint.
type LoginRequest struct {
	TCNo     string `json:"tc_no"`
	Password string `json:"password"` //nolint:gosec // request credential
	Role     string `json:"role"`
}

// Validate checks the shape of the request. Credential correctness is decided by the
// login use case.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TCNo, validation.Required, customValidation.Identifier),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Role, validation.Required, validation.By(validateRole)),
	)
}

// ToInput converts the request into the use case input.
func (r *LoginRequest) ToInput() *identityDomain.LoginInput {
	role, _ := identityDomain.ParseRole(r.Role)
	return &identityDomain.LoginInput{
		Identifier: r.TCNo,
		Password:   r.Password,
		Role:       role,
	}
}

func validateRole(value interface{}) error {
	s, _ := value.(string)
	if _, err := identityDomain.ParseRole(s); err != nil {
		return validation.NewError("validation_role", "must be student or teacher")
	}
	return nil
}
