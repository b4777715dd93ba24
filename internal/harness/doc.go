// Package harness runs render scenarios against the real pipeline.
//
// A scenario names an icon, supplies its source inline or from a file,
// applies a preset and a list of field edits through a session, and checks
// the rendered markup. The asset cache, session and transform engine are
// the production ones; only the fetcher is replaced by one that serves the
// scenario's source.
//
// # Scenario Format
//
//	name: home_bold
//	description: "Bold red home icon rotated a quarter turn"
//	icon: home
//	source_file: icons/home.svg
//	config:
//	  size: 48
//	  fill: "#ff0000"
//	edits:
//	  - field: rotation
//	    value: "90"
//	  - field: size
//	    value: "huge"
//	    reject: true
//	mode: export
//	assertions:
//	  - type: contains
//	    text: 'width="48"'
//	  - type: count
//	    text: "<path"
//	    count: 1
//	  - type: idempotent
//
// A scenario without source renders as a missing icon; set expect_error to
// not_found (or malformed, for a broken source) to assert the placeholder.
//
// # Assertion Types
//
//   - contains: the output contains text
//   - not_contains: the output does not contain text
//   - count: text occurs exactly count times
//   - idempotent: re-rendering the final configuration yields the same bytes
//
// # Deterministic Testing
//
// Sessions run with testutil.DeterministicClock and a fixed session ID, so
// the trace of versions is identical across runs. RunWithGolden compares
// the rendered output against testdata/golden/<name>.golden.
package harness
