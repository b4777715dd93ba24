package harness

import (
	"context"
	"fmt"
	"strings"
)

// maxOutputInError bounds the output echoed in assertion failures.
const maxOutputInError = 400

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Output   string // Rendered output for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		out := e.Output
		if len(out) > maxOutputInError {
			out = out[:maxOutputInError] + "..."
		}
		fmt.Fprintf(&buf, "\nOutput:\n  %s\n", out)
	}
	return buf.String()
}

func assertContains(output string, a Assertion) error {
	if strings.Contains(output, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: fmt.Sprintf("output contains %q", a.Text),
		Actual:   "not found",
		Output:   output,
	}
}

func assertNotContains(output string, a Assertion) error {
	if !strings.Contains(output, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNotContains,
		Expected: fmt.Sprintf("output does not contain %q", a.Text),
		Actual:   fmt.Sprintf("found at offset %d", strings.Index(output, a.Text)),
		Output:   output,
	}
}

// assertCount checks that the text occurs exactly the specified number of
// times. Occurrences do not overlap.
func assertCount(output string, a Assertion) error {
	n := strings.Count(output, a.Text)
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d occurrences of %q", a.Count, a.Text),
		Actual:   fmt.Sprintf("%d occurrences", n),
		Output:   output,
	}
}

func assertIdempotent(output string, actx *AssertionContext) error {
	again, err := actx.Rerender()
	if err != nil {
		return fmt.Errorf("idempotent: re-render failed: %w", err)
	}
	if again == output {
		return nil
	}
	return &AssertionError{
		Type:     AssertIdempotent,
		Expected: "identical output on re-render",
		Actual:   fmt.Sprintf("first difference at offset %d", firstDiff(output, again)),
		Output:   again,
	}
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Ctx context.Context

	// Rerender renders the final configuration again.
	Rerender func() (string, error)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertContains:
			err = assertContains(result.Output, assertion)
		case AssertNotContains:
			err = assertNotContains(result.Output, assertion)
		case AssertCount:
			err = assertCount(result.Output, assertion)
		case AssertIdempotent:
			if actx == nil || actx.Rerender == nil {
				err = fmt.Errorf("assertion[%d]: idempotent requires a render context", i)
			} else {
				err = assertIdempotent(result.Output, actx)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
