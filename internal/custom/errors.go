package custom

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid is returned when a mutation would produce an invalid
// configuration. The previous configuration is kept.
var ErrConfigInvalid = errors.New("invalid configuration")

// FieldError reports which field was rejected and why.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s %q: %s", ErrConfigInvalid, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfigInvalid, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrConfigInvalid
}
