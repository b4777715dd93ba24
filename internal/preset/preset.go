// Package preset loads partial customizations from YAML or CUE files.
//
// A preset names only the fields it wants to change. Apply lays it over a
// base configuration and validates the result, so a preset that parses can
// still be rejected, for example when it sets a colour that is not one.
//
// CUE presets are unified with an embedded closed #Preset definition before
// decoding. Unknown fields, a non-positive size or a negative stroke width
// are reported with their source position. YAML presets are decoded
// strictly: unknown keys are errors.
package preset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/microresearch/svgo/internal/custom"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalidPreset wraps every load and decode failure.
var ErrInvalidPreset = errors.New("invalid preset")

// Preset is a partial customization. Nil fields are left alone by Apply.
type Preset struct {
	Size        *float64 `json:"size,omitempty" yaml:"size,omitempty"`
	StrokeWidth *float64 `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty"`
	Rotation    *float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Fill        *string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Animate     *bool    `json:"animate,omitempty" yaml:"animate,omitempty"`
}

// LoadError reports a preset that could not be read or decoded.
type LoadError struct {
	File string
	Msg  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("preset: %s", e.Msg)
	}
	return fmt.Sprintf("preset %s: %s", e.File, e.Msg)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPreset}
	}
	return []error{ErrInvalidPreset, e.Err}
}

// Load reads a preset file. The format follows the extension: .yaml and
// .yml are YAML; .cue and .json go through CUE.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Msg: "read failed", Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	case ".cue", ".json":
		return ParseCUE(path, data)
	default:
		return nil, &LoadError{File: path, Msg: fmt.Sprintf("unsupported extension %q", filepath.Ext(path))}
	}
}

// ParseYAML decodes a YAML preset. An empty document is an empty preset.
func ParseYAML(name string, data []byte) (*Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{File: name, Msg: err.Error(), Err: err}
	}
	return &p, nil
}

// ParseCUE validates data against #Preset and decodes it.
func ParseCUE(name string, data []byte) (*Preset, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Msg: "building schema: " + err.Error(), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Preset"))

	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, &LoadError{File: name, Msg: details(err), Err: err}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{File: name, Msg: details(err), Err: err}
	}

	var p Preset
	if err := unified.Decode(&p); err != nil {
		return nil, &LoadError{File: name, Msg: details(err), Err: err}
	}
	return &p, nil
}

func details(err error) string {
	return strings.TrimSpace(cueerrors.Details(err, nil))
}

// Apply lays p over base and validates the result. On error base is
// returned unchanged and the error wraps custom.ErrConfigInvalid.
func (p *Preset) Apply(base custom.Config) (custom.Config, error) {
	if p == nil {
		return base, nil
	}
	next := base
	if p.Size != nil {
		next.Size = *p.Size
	}
	if p.StrokeWidth != nil {
		next.StrokeWidth = *p.StrokeWidth
	}
	if p.Rotation != nil {
		next.Rotation = *p.Rotation
	}
	if p.Fill != nil {
		c, err := custom.ParseColor(*p.Fill)
		if err != nil {
			return base, &custom.FieldError{Field: custom.FieldFill, Value: *p.Fill, Reason: "not a hex colour or colour keyword"}
		}
		next.Fill = c
	}
	if p.Stroke != nil {
		c, err := custom.ParseColor(*p.Stroke)
		if err != nil {
			return base, &custom.FieldError{Field: custom.FieldStroke, Value: *p.Stroke, Reason: "not a hex colour or colour keyword"}
		}
		next.Stroke = c
	}
	if p.Animate != nil {
		next.Animate = *p.Animate
	}
	if err := next.Validate(); err != nil {
		return base, err
	}
	return next, nil
}
