package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Validate checks struct fields against their validate tags using a shared
// validator instance.
func Validate(i interface{}) error {
	if i == nil {
		return fmt.Errorf("cannot validate nil data")
	}

	return v.Struct(i)
}
