// Package custom defines the customization applied to an icon before it is
// rendered.
//
// Config is a plain value. Mutations go through ParseField or are checked
// with Validate, and return a new Config; a rejected mutation never leaves a
// half-applied value behind.
package custom

import (
	"math"
	"strconv"
	"strings"
)

// Field names accepted by ParseField.
const (
	FieldSize        = "size"
	FieldStrokeWidth = "stroke-width"
	FieldRotation    = "rotation"
	FieldFill        = "fill"
	FieldStroke      = "stroke"
	FieldAnimate     = "animate"
)

// Fields lists the editable fields in display order.
var Fields = []string{FieldSize, FieldStrokeWidth, FieldRotation, FieldFill, FieldStroke, FieldAnimate}

var fieldAliases = map[string]string{
	"stroke_width": FieldStrokeWidth,
	"strokewidth":  FieldStrokeWidth,
	"rotate":       FieldRotation,
	"rotation_deg": FieldRotation,
	"animation":    FieldAnimate,
}

// DefaultSize is the edge length, in user units, of a fresh configuration.
const DefaultSize = 100

// Config is the customization of one icon.
type Config struct {
	Size        float64 `json:"size"`
	StrokeWidth float64 `json:"stroke_width"`
	Rotation    float64 `json:"rotation"`
	Fill        Color   `json:"fill"`
	Stroke      Color   `json:"stroke"`
	Animate     bool    `json:"animate"`
	Icon        string  `json:"icon,omitempty"`
}

// Defaults returns the configuration every newly opened icon starts from.
// An empty accent means DefaultAccent.
func Defaults(accent Color) Config {
	if accent == "" {
		accent = DefaultAccent
	}
	return Config{
		Size:   DefaultSize,
		Fill:   accent,
		Stroke: accent,
	}
}

// WithIcon returns a copy of c targeting name.
func (c Config) WithIcon(name string) Config {
	c.Icon = name
	return c
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case !finite(c.Size) || c.Size <= 0:
		return &FieldError{Field: FieldSize, Value: formatFloat(c.Size), Reason: "must be a positive number"}
	case !finite(c.StrokeWidth) || c.StrokeWidth < 0:
		return &FieldError{Field: FieldStrokeWidth, Value: formatFloat(c.StrokeWidth), Reason: "must be a non-negative number"}
	case !finite(c.Rotation):
		return &FieldError{Field: FieldRotation, Value: formatFloat(c.Rotation), Reason: "must be a finite number"}
	case !c.Fill.Valid():
		return &FieldError{Field: FieldFill, Value: string(c.Fill), Reason: "not a colour"}
	case !c.Stroke.Valid():
		return &FieldError{Field: FieldStroke, Value: string(c.Stroke), Reason: "not a colour"}
	}
	return nil
}

// ParseField applies one textual input to a copy of c and validates the
// result. On error c is returned unchanged.
func (c Config) ParseField(field, raw string) (Config, error) {
	name := CanonicalField(field)
	next := c
	switch name {
	case FieldSize, FieldStrokeWidth, FieldRotation:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return c, &FieldError{Field: name, Value: raw, Reason: "not a number"}
		}
		switch name {
		case FieldSize:
			next.Size = v
		case FieldStrokeWidth:
			next.StrokeWidth = v
		default:
			next.Rotation = v
		}
	case FieldFill, FieldStroke:
		col, err := ParseColor(raw)
		if err != nil {
			return c, &FieldError{Field: name, Value: raw, Reason: "not a hex colour or colour keyword"}
		}
		if name == FieldFill {
			next.Fill = col
		} else {
			next.Stroke = col
		}
	case FieldAnimate:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return c, &FieldError{Field: name, Value: raw, Reason: "not a boolean"}
		}
		next.Animate = b
	default:
		return c, &FieldError{Field: field, Reason: "unknown field"}
	}

	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// CanonicalField maps accepted spellings to a Field constant. Unknown names
// are returned lower-cased.
func CanonicalField(field string) string {
	f := strings.ToLower(strings.TrimSpace(field))
	if alias, ok := fieldAliases[f]; ok {
		return alias
	}
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
