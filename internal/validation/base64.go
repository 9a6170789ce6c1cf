package validation

import (
	"encoding/base64"
	"fmt"

	validation "github.com/jellydator/validation"
)

// Base64 accepts standard base64. Empty strings pass; pair with Required.
var Base64 = Base64Key(0)

// Base64Key accepts standard base64 that decodes to exactly size bytes, or to any
// length when size is 0. The error never echoes the value, which is key material.
func Base64Key(size int) validation.Rule {
	return validation.By(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_base64_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return validation.NewError("validation_base64", "must be valid base64-encoded data")
		}
		if size > 0 && len(decoded) != size {
			return validation.NewError("validation_base64_size", fmt.Sprintf("must decode to exactly %d bytes", size))
		}
		return nil
	})
}
