package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microresearch/svgo/internal/custom"
)

func TestLoad_YAML(t *testing.T) {
	p, err := Load("testdata/bold.yaml")
	require.NoError(t, err)

	cfg, err := p.Apply(custom.Defaults("").WithIcon("home"))
	require.NoError(t, err)
	assert.Equal(t, custom.Config{
		Size:        48,
		StrokeWidth: 2,
		Rotation:    90,
		Fill:        "#ff0000",
		Stroke:      custom.Inherit,
		Icon:        "home",
	}, cfg)
}

func TestLoad_CUE(t *testing.T) {
	p, err := Load("testdata/spin.cue")
	require.NoError(t, err)

	cfg, err := p.Apply(custom.Defaults(""))
	require.NoError(t, err)
	assert.Equal(t, 64.0, cfg.Size)
	assert.Equal(t, -45.0, cfg.Rotation)
	assert.Equal(t, custom.Color("navy"), cfg.Fill)
	assert.Equal(t, custom.DefaultAccent, cfg.Stroke, "absent fields keep the base")
	assert.True(t, cfg.Animate)
}

func TestLoad_JSONThroughCUE(t *testing.T) {
	p, err := Load("testdata/outline.json")
	require.NoError(t, err)
	require.NotNil(t, p.StrokeWidth)
	assert.Equal(t, 1.5, *p.StrokeWidth)
	assert.Nil(t, p.Size)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	tests := map[string]string{
		"missing file":      filepath.Join(dir, "nope.yaml"),
		"bad extension":     write("preset.toml", "size = 1"),
		"yaml unknown key":  write("typo.yaml", "sise: 48\n"),
		"yaml wrong type":   write("type.yaml", "size: big\n"),
		"cue zero size":     write("zero.cue", "size: 0\n"),
		"cue negative":      write("neg.cue", "stroke_width: -1\n"),
		"cue unknown field": write("extra.cue", "size: 10\ncolour: \"red\"\n"),
		"cue syntax":        write("broken.cue", "size: {\n"),
		"cue not concrete":  write("open.cue", "size: number\n"),
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPreset), err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, path, le.File)
		})
	}
}

func TestParseYAML_Empty(t *testing.T) {
	p, err := ParseYAML("empty.yaml", nil)
	require.NoError(t, err)

	base := custom.Defaults("")
	cfg, err := p.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestApply_Rejects(t *testing.T) {
	base := custom.Defaults("").WithIcon("home")
	bad := "chartreuse-ish"
	size := -3.0

	for name, p := range map[string]*Preset{
		"colour": {Fill: &bad},
		"size":   {Size: &size},
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := p.Apply(base)
			require.Error(t, err)
			assert.True(t, errors.Is(err, custom.ErrConfigInvalid))
			assert.Equal(t, base, cfg)
		})
	}
}

func TestApply_Nil(t *testing.T) {
	var p *Preset
	base := custom.Defaults("")
	cfg, err := p.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}
