package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	homeSVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M3 10l9-7 9 7"/></svg>`
	arrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M12 4v16"/></svg>`
	starSVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M12 2l3 7h7l-6 4 2 7-6-4-6 4 2-7-6-4h7z"/></svg>`
)

// fixtureCatalog lists eight icons; "broken" is malformed and "missing" has
// no asset file. The published total is larger than the record count.
const fixtureCatalog = `{
  "total": 10,
  "images": [
    {"name": "home", "id": 1},
    {"name": "home-outline", "id": "2"},
    {"name": "arrow-up", "id": 3},
    {"name": "arrow-down", "id": 4},
    {"name": "arrow-left", "id": 5},
    {"name": "star", "id": 6},
    {"name": "broken", "id": 7},
    {"name": "missing", "id": 8}
  ]
}`

type fixture struct {
	dir     string
	catalog string
	assets  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:     dir,
		catalog: filepath.Join(dir, "db.json"),
		assets:  filepath.Join(dir, "svg"),
	}
	require.NoError(t, os.WriteFile(f.catalog, []byte(fixtureCatalog), 0644))
	require.NoError(t, os.MkdirAll(f.assets, 0755))

	files := map[string]string{
		"home":         homeSVG,
		"home-outline": homeSVG,
		"arrow-up":     arrowSVG,
		"arrow-down":   arrowSVG,
		"arrow-left":   arrowSVG,
		"star":         starSVG,
		"broken":       "<svg><g></svg>",
	}
	for name, src := range files {
		f.writeAsset(t, name, src)
	}
	return f
}

func (f *fixture) writeAsset(t *testing.T, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.assets, name+".svg"), []byte(src), 0644))
}

// run executes the root command against the fixture and returns stdout and
// stderr.
func (f *fixture) run(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--catalog", f.catalog, "--assets", f.assets}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type fixtureResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeResponse(t *testing.T, out string) fixtureResponse {
	t.Helper()
	var r fixtureResponse
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	r := decodeResponse(t, out)
	require.Equal(t, "ok", r.Status, out)
	var v T
	require.NoError(t, json.Unmarshal(r.Data, &v))
	return v
}
