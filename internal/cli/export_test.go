package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesFile(t *testing.T) {
	f := newFixture(t)
	outDir := t.TempDir()

	out, _, err := f.run("export", "home", "--size", "64", "--fill", "navy", "-o", outDir)
	require.NoError(t, err)

	path := filepath.Join(outDir, "home-custom.svg")
	assert.Contains(t, out, "✓ Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "<!-- S-V-Go Library: home -->\n<svg"))
	assert.Contains(t, content, `width="64"`)
	assert.Contains(t, content, `fill="navy"`)
}

func TestExportJSON(t *testing.T) {
	f := newFixture(t)
	outDir := t.TempDir()

	out, _, err := f.run("--format", "json", "export", "star", "--out", outDir)
	require.NoError(t, err)

	res := decodeData[ExportResult](t, out)
	assert.Equal(t, "star", res.Icon)
	assert.Equal(t, filepath.Join(outDir, "star-custom.svg"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, len(data), res.Bytes)
}

func TestExportMissingOutDir(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run("export", "home", "--out", filepath.Join(f.dir, "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "output directory not found")
}

func TestExportWriteFailure(t *testing.T) {
	f := newFixture(t)
	outDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outDir, "home-custom.svg"), 0755))

	out, _, err := f.run("--format", "json", "export", "home", "--out", outDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	r := decodeResponse(t, out)
	assert.Equal(t, "error", r.Status)
	require.NotNil(t, r.Error)
	assert.Equal(t, ErrCodeWriteFailed, r.Error.Code)
	assert.Contains(t, r.Error.Message, "home-custom.svg")
}

func TestExportPlaceholderWritesNothing(t *testing.T) {
	f := newFixture(t)
	outDir := t.TempDir()

	_, _, err := f.run("export", "missing", "--out", outDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportCacheDatabase(t *testing.T) {
	f := newFixture(t)
	db := filepath.Join(f.dir, "cache.db")
	outDir := t.TempDir()

	_, _, err := f.run("--cache-db", db, "export", "home", "--out", outDir)
	require.NoError(t, err)
	_, err = os.Stat(db)
	require.NoError(t, err)

	// The asset is gone from the source; the warmed cache still serves it.
	require.NoError(t, os.Remove(filepath.Join(f.assets, "home.svg")))

	_, _, err = f.run("--cache-db", db, "export", "home", "--out", outDir)
	require.NoError(t, err)

	_, _, err = f.run("export", "home", "--out", outDir)
	require.Error(t, err, "without the cache database the asset is missing")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
