package svgdoc

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when source text is not a well-formed SVG document.
var ErrMalformed = errors.New("malformed svg")

// ParseError describes where parsing failed.
type ParseError struct {
	// Line is the 1-based input line reported by the decoder, 0 if unknown.
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformed, msg)
}

// Is reports ErrMalformed so callers can use errors.Is(err, ErrMalformed).
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
