package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/session"
	"github.com/microresearch/svgo/internal/testutil"
	"github.com/microresearch/svgo/internal/transform"
)

// Harness is the scenario execution engine. It wires a real asset cache
// and session to a fetcher that serves only the scenario's icon.
type Harness struct {
	cache   *asset.Cache
	session *session.Session
	mode    transform.Mode
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh cache and session with a deterministic clock.
// Execution flow:
//  1. Open the icon with default configuration
//  2. Apply the scenario's preset
//  3. Apply edits in order, checking expected rejections
//  4. Check the expected load error, if any
//  5. Evaluate assertions against the output
//
// The returned error is reserved for problems with the scenario itself;
// failed expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	src, hasSource, err := scenarioSource(scenario)
	if err != nil {
		return nil, err
	}
	mode, ok := transform.ParseMode(scenario.Mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", scenario.Mode)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := asset.FetcherFunc(func(_ context.Context, name string) ([]byte, error) {
		if name != scenario.Icon || !hasSource {
			return nil, &asset.FetchError{Name: name, Status: 404, Err: asset.ErrAssetNotFound}
		}
		return []byte(src), nil
	})
	cache := asset.New(fetcher, testutil.NewNames(scenario.Icon), asset.WithLogger(logger))

	h := &Harness{
		cache: cache,
		session: session.New(cache,
			session.WithClock(testutil.NewDeterministicClock()),
			session.WithIDGenerator(testutil.NewFixedIDGenerator("")),
			session.WithLogger(logger),
		),
		mode:   mode,
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	out, err := h.session.Open(ctx, scenario.Icon)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scenario.Icon, err)
	}
	result.AddTrace(TraceEvent{Seq: out.Version, Op: "open", Value: scenario.Icon, Placeholder: out.Placeholder})

	if scenario.Config != nil {
		out, err = h.applyPreset(ctx, scenario, result, out)
		if err != nil {
			return nil, err
		}
	}

	out, err = h.applyEdits(ctx, scenario.Edits, result, out)
	if err != nil {
		return nil, err
	}

	checkLoadError(scenario.ExpectError, out, result)

	result.Output, err = h.output(out)
	if err != nil {
		return nil, err
	}

	actx := &AssertionContext{
		Ctx: ctx,
		Rerender: func() (string, error) {
			again, err := h.session.Refresh(ctx)
			if err != nil {
				return "", err
			}
			return h.output(again)
		},
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func scenarioSource(s *Scenario) (string, bool, error) {
	switch {
	case s.SourceFile != "":
		data, err := os.ReadFile(s.SourceFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read source file: %w", err)
		}
		return string(data), true, nil
	case s.Source != "":
		return s.Source, true, nil
	default:
		return "", false, nil
	}
}

func (h *Harness) applyPreset(ctx context.Context, s *Scenario, result *Result, out session.Output) (session.Output, error) {
	cfg, err := s.Config.Apply(h.session.Config())
	if err != nil {
		result.AddError(fmt.Sprintf("config: %v", err))
		result.AddTrace(TraceEvent{Seq: out.Version, Op: "preset", Rejected: true})
		return out, nil
	}
	next, err := h.session.Update(ctx, func(custom.Config) custom.Config { return cfg })
	if err != nil {
		return out, fmt.Errorf("failed to apply config: %w", err)
	}
	result.AddTrace(TraceEvent{Seq: next.Version, Op: "preset", Placeholder: next.Placeholder})
	return next, nil
}

func (h *Harness) applyEdits(ctx context.Context, edits []Edit, result *Result, out session.Output) (session.Output, error) {
	for i, e := range edits {
		next, err := h.session.Set(ctx, e.Field, e.Value)
		ev := TraceEvent{Seq: next.Version, Op: "set", Field: custom.CanonicalField(e.Field), Value: e.Value}

		switch {
		case errors.Is(err, custom.ErrConfigInvalid):
			ev.Rejected = true
			if !e.Reject {
				result.AddError(fmt.Sprintf("edits[%d]: %s=%q was rejected: %v", i, e.Field, e.Value, err))
			}
		case err != nil:
			return out, fmt.Errorf("edits[%d]: %w", i, err)
		default:
			if e.Reject {
				result.AddError(fmt.Sprintf("edits[%d]: %s=%q was accepted, expected rejection", i, e.Field, e.Value))
			}
			ev.Placeholder = next.Placeholder
			out = next
		}

		h.logger.Debug("edit applied", "step", i, "field", e.Field, "rejected", ev.Rejected)
		result.AddTrace(ev)
	}
	return out, nil
}

// checkLoadError compares the load outcome with the expected error kind.
func checkLoadError(expect string, out session.Output, result *Result) {
	var want error
	switch expect {
	case ExpectNotFound:
		want = asset.ErrAssetNotFound
	case ExpectMalformed:
		want = asset.ErrAssetMalformed
	}

	switch {
	case want == nil && out.Placeholder:
		result.AddError(fmt.Sprintf("icon failed to load: %v", out.Err))
	case want != nil && !out.Placeholder:
		result.AddError(fmt.Sprintf("expected %s, icon loaded", expect))
	case want != nil && !errors.Is(out.Err, want):
		result.AddError(fmt.Sprintf("expected %s, got: %v", expect, out.Err))
	}
}

// output selects the markup for the harness mode.
func (h *Harness) output(out session.Output) (string, error) {
	switch h.mode {
	case transform.Preview:
		return out.Inline, nil
	case transform.Export:
		return out.Export, nil
	}
	src := asset.Placeholder
	if !out.Placeholder {
		cached, ok := h.cache.Lookup(out.Icon)
		if !ok {
			return "", fmt.Errorf("icon %s missing from cache", out.Icon)
		}
		src = cached
	}
	return transform.Render(src, out.Config, h.mode)
}
