package domain

import (
	"chat-warehouse/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// check runs struct validation and wraps failures so callers can test
// with errors.Is(err, errors.ErrValidation) instead of depending on
// validator internals.
func check(entity any) error {
	if err := validate.Struct(entity); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
