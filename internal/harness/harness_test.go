package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microresearch/svgo/internal/preset"
)

const homeSource = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M3 10l9-7 9 7"/></svg>`

func ptr[T any](v T) *T { return &v }

// TestScenarios runs every scenario under testdata. Scenarios with a golden
// file are compared byte for byte.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	golden := map[string]bool{"home_export": true, "home_animated": true, "home_download": true}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name)

			var result *Result
			if golden[name] {
				result, err = RunWithGolden(t, scenario)
			} else {
				result, err = Run(scenario)
			}
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Trace(t *testing.T) {
	scenario, err := LoadScenario("testdata/home_export.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, []TraceEvent{
		{Seq: 1, Op: "open", Value: "home"},
		{Seq: 2, Op: "preset"},
		{Seq: 3, Op: "set", Field: "rotation", Value: "90"},
		{Seq: 3, Op: "set", Field: "size", Value: "huge", Rejected: true},
	}, result.Trace)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/home_animated.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_InlineSource(t *testing.T) {
	result, err := Run(&Scenario{
		Name:   "inline",
		Icon:   "roof",
		Source: homeSource,
		Config: nil,
		Edits:  []Edit{{Field: "stroke_width", Value: "0"}},
		Assertions: []Assertion{
			{Type: AssertContains, Text: `stroke="none"`},
			{Type: AssertNotContains, Text: "stroke-width"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "stroke-width", result.Trace[1].Field, "aliases are canonicalized")
}

func TestRun_FailedAssertionIsReported(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "fails",
		Icon:       "roof",
		Source:     homeSource,
		Assertions: []Assertion{{Type: AssertContains, Text: `width="12"`}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `output contains "width=\"12\""`)
}

func TestRun_UnexpectedRejection(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "rejects",
		Icon:       "roof",
		Source:     homeSource,
		Edits:      []Edit{{Field: "size", Value: "-4"}},
		Assertions: []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "was rejected")
}

func TestRun_UnexpectedAcceptance(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "accepts",
		Icon:       "roof",
		Source:     homeSource,
		Edits:      []Edit{{Field: "size", Value: "4", Reject: true}},
		Assertions: []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected rejection")
}

func TestRun_InvalidPreset(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "preset",
		Icon:       "roof",
		Source:     homeSource,
		Config:     nil,
		Assertions: []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	require.True(t, result.Pass)

	s := &Scenario{
		Name:       "preset",
		Icon:       "roof",
		Source:     homeSource,
		Assertions: []Assertion{{Type: AssertContains, Text: `width="100"`}},
	}
	s.Config = presetWithFill("sparkly")
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "config:")
	assert.True(t, result.Trace[1].Rejected)
}

func TestRun_ExpectErrorMismatch(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "loads",
		Icon:        "roof",
		Source:      homeSource,
		ExpectError: ExpectNotFound,
		Assertions:  []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected not_found, icon loaded")

	result, err = Run(&Scenario{
		Name:        "wrong kind",
		Icon:        "roof",
		ExpectError: ExpectMalformed,
		Assertions:  []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected malformed, got")

	result, err = Run(&Scenario{
		Name:       "unexpected",
		Icon:       "roof",
		Assertions: []Assertion{{Type: AssertIdempotent}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "icon failed to load")
}

func TestRun_DownloadPlaceholder(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "download",
		Icon:        "zzz-missing",
		Mode:        "download",
		ExpectError: ExpectNotFound,
		Assertions:  []Assertion{{Type: AssertContains, Text: "<!-- S-V-Go Library: zzz-missing -->\n<svg"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MissingSourceFile(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Icon: "home", SourceFile: "testdata/icons/nope.svg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source file")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

func presetWithFill(fill string) *preset.Preset {
	return &preset.Preset{Fill: ptr(fill)}
}
