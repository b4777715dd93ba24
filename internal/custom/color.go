package custom

import (
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a CSS colour value as written into the document.
type Color string

const (
	// Inherit takes the colour from the surrounding text.
	Inherit Color = "currentColor"

	// None disables painting.
	None Color = "none"

	// DefaultAccent is the accent colour used for fresh configurations.
	DefaultAccent Color = "#6750a4"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Valid reports whether c is the sentinel, none, a hex colour or an SVG
// colour keyword.
func (c Color) Valid() bool {
	switch {
	case c == Inherit || c == None:
		return true
	case hexColor.MatchString(string(c)):
		return true
	default:
		_, ok := colornames.Map[string(c)]
		return ok
	}
}

// ParseColor normalizes user input. "inherit" and any casing of
// "currentColor" map to Inherit; hex digits and keywords are lower-cased.
func ParseColor(raw string) (Color, error) {
	s := strings.TrimSpace(raw)
	switch lower := strings.ToLower(s); {
	case lower == "":
		return "", &FieldError{Field: "color", Reason: "empty"}
	case lower == "inherit" || lower == "currentcolor":
		return Inherit, nil
	default:
		c := Color(lower)
		if !c.Valid() {
			return "", &FieldError{Field: "color", Value: raw, Reason: "not a hex colour or colour keyword"}
		}
		return c, nil
	}
}
