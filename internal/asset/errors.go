package asset

import (
	"errors"
	"fmt"

	"github.com/microresearch/svgo/internal/svgdoc"
)

var (
	// ErrAssetNotFound is returned when an icon's source could not be
	// retrieved: non-success status, transport failure, or a name that is
	// not in the catalog.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrAssetMalformed is returned when a retrieved source does not parse
	// as an SVG document. It is the same value as svgdoc.ErrMalformed so
	// render failures and fetch failures match the same check.
	ErrAssetMalformed = svgdoc.ErrMalformed
)

// FetchError describes a failed asset retrieval.
type FetchError struct {
	// Name is the icon name.
	Name string

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	// Err is the classified cause (wraps ErrAssetNotFound or ErrAssetMalformed).
	Err error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("asset %s: status %d: %v", e.Name, e.Status, e.Err)
	}
	return fmt.Sprintf("asset %s: %v", e.Name, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether err is a per-icon failure that should be
// rendered as a placeholder rather than propagated.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrAssetMalformed)
}
