// Package validation holds the jellydator/validation rules shared by the
// identity and school packages.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/rahats/school/internal/errors"
)

// WrapValidationError puts a validation failure under ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Password accepts at least minLength characters with one digit among them.
// Empty strings pass; pair with Required.
func Password(minLength int) validation.Rule {
	return validation.By(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_password_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) < minLength {
			return validation.NewError("validation_password_length",
				fmt.Sprintf("must be at least %d characters", minLength))
		}
		if strings.IndexFunc(s, unicode.IsDigit) < 0 {
			return validation.NewError("validation_password_digit", "must contain a digit")
		}
		return nil
	})
}

// Email accepts a bare address with a dotted domain, no display name.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return false
		}
		domain := s[strings.LastIndexByte(s, '@')+1:]
		return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
	},
	validation.NewError("validation_email", "must be a valid email address"),
)

// Identifier accepts an 11-digit national identity number. Surrounding whitespace
// is tolerated since callers normalize before hashing.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		s = strings.TrimSpace(s)
		if len(s) != 11 {
			return false
		}
		return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
	},
	validation.NewError("validation_identifier", "must be exactly 11 digits"),
)

// HTTPURL accepts an absolute http or https URL.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.ParseRequestURI(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_url", "must be a valid http or https URL"),
)

// NotBlank rejects strings that are only whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
