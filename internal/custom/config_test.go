package custom

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults("")
	assert.Equal(t, Config{Size: 100, Fill: DefaultAccent, Stroke: DefaultAccent}, c)
	require.NoError(t, c.Validate())

	c = Defaults("#ff0000")
	assert.Equal(t, Color("#ff0000"), c.Fill)
	assert.Equal(t, Color("#ff0000"), c.Stroke)
	assert.False(t, c.Animate)
	assert.Zero(t, c.StrokeWidth)
	assert.Zero(t, c.Rotation)
}

func TestWithIcon_DoesNotMutate(t *testing.T) {
	c := Defaults("")
	d := c.WithIcon("home")
	assert.Equal(t, "home", d.Icon)
	assert.Empty(t, c.Icon)
}

func TestValidate(t *testing.T) {
	base := Defaults("")
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero size", func(c *Config) { c.Size = 0 }, FieldSize},
		{"negative size", func(c *Config) { c.Size = -4 }, FieldSize},
		{"nan size", func(c *Config) { c.Size = math.NaN() }, FieldSize},
		{"negative stroke", func(c *Config) { c.StrokeWidth = -1 }, FieldStrokeWidth},
		{"inf stroke", func(c *Config) { c.StrokeWidth = math.Inf(1) }, FieldStrokeWidth},
		{"inf rotation", func(c *Config) { c.Rotation = math.Inf(-1) }, FieldRotation},
		{"bad fill", func(c *Config) { c.Fill = "#12" }, FieldFill},
		{"bad stroke", func(c *Config) { c.Stroke = "url(#x)" }, FieldStroke},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mut(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigInvalid))
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestParseField(t *testing.T) {
	c := Defaults("")

	next, err := c.ParseField("size", " 48 ")
	require.NoError(t, err)
	assert.Equal(t, 48.0, next.Size)
	assert.Equal(t, 100.0, c.Size, "receiver is not modified")

	next, err = next.ParseField("stroke_width", "2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, next.StrokeWidth)

	next, err = next.ParseField("rotate", "-450")
	require.NoError(t, err)
	assert.Equal(t, -450.0, next.Rotation)

	next, err = next.ParseField("fill", "#FF0000")
	require.NoError(t, err)
	assert.Equal(t, Color("#ff0000"), next.Fill)

	next, err = next.ParseField("stroke", "inherit")
	require.NoError(t, err)
	assert.Equal(t, Inherit, next.Stroke)

	next, err = next.ParseField("animate", "true")
	require.NoError(t, err)
	assert.True(t, next.Animate)
}

func TestParseField_RejectsAndRetains(t *testing.T) {
	c := Defaults("").WithIcon("home")

	tests := []struct{ field, raw string }{
		{"size", "abc"},
		{"size", "0"},
		{"size", "-3"},
		{"size", "NaN"},
		{"stroke-width", "-1"},
		{"rotation", "Inf"},
		{"fill", "notacolour"},
		{"stroke", ""},
		{"animate", "sometimes"},
		{"opacity", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.raw, func(t *testing.T) {
			got, err := c.ParseField(tt.field, tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigInvalid))
			assert.Equal(t, c, got, "previous configuration retained")
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"currentColor": Inherit,
		"CURRENTCOLOR": Inherit,
		"inherit":      Inherit,
		"none":         None,
		"#ABC":         "#abc",
		"#abcd":        "#abcd",
		"#a1b2c3":      "#a1b2c3",
		"#a1b2c3d4":    "#a1b2c3d4",
		" Red ":        "red",
	}
	for raw, want := range tests {
		got, err := ParseColor(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, bad := range []string{"", "#", "#12", "#12345", "blue!", "rgb(1,2,3)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, FieldStrokeWidth, CanonicalField("Stroke_Width"))
	assert.Equal(t, FieldRotation, CanonicalField("rotate"))
	assert.Equal(t, FieldSize, CanonicalField(" SIZE "))
	assert.Equal(t, "opacity", CanonicalField("opacity"))
}
