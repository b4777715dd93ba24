// Package session holds the single live customization and its rendered
// output.
//
// Every accepted mutation is stamped with a version from a monotonic clock
// and immediately re-rendered from the cached source. A render is published
// only if its version is newer than the one already published, so a slow
// render for an old configuration can never overwrite the output of a later
// mutation.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/transform"
)

// Assets resolves icon sources. *asset.Cache implements it.
type Assets interface {
	Get(ctx context.Context, name string) (string, error)
}

// Output is the rendered state for one configuration version.
type Output struct {
	Icon    string        `json:"icon"`
	Config  custom.Config `json:"config"`
	Inline  string        `json:"inline"`
	Export  string        `json:"export"`
	Version int64         `json:"version"`

	// Placeholder is set when the icon could not be loaded and the
	// fallback glyph was rendered instead. Err holds the cause.
	Placeholder bool  `json:"placeholder"`
	Err         error `json:"-"`
}

// Option configures a Session.
type Option func(*Session)

// WithAccent sets the accent used by defaults.
func WithAccent(c custom.Color) Option {
	return func(s *Session) { s.accent = c }
}

// WithClock replaces the version clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.ids = g }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is the editing session for one icon at a time.
//
// Thread-safety: all methods are safe for concurrent use. Subscribers are
// called in version order and must not mutate the session synchronously.
type Session struct {
	assets Assets
	accent custom.Color
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
	id     string

	mu         sync.Mutex
	cfg        custom.Config
	cfgVersion int64
	rendering  map[int64]custom.Config // accepted, not yet published or failed
	out        Output
	subs       map[int]func(Output)
	nextID     int

	// notifyMu is taken while mu is held, so notifications leave in the
	// order versions were published.
	notifyMu sync.Mutex
}

// New creates a session with default configuration and no target.
func New(assets Assets, opts ...Option) *Session {
	s := &Session{
		assets: assets,
		accent: custom.DefaultAccent,
		clock:  &logicalClock{},
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
		subs:   make(map[int]func(Output)),

		rendering: make(map[int64]custom.Config),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	s.cfg = custom.Defaults(s.accent)
	s.out = Output{Config: s.cfg}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Config returns the current configuration.
func (s *Session) Config() custom.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Output returns the most recently published output.
func (s *Session) Output() Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

// Subscribe registers fn for every published output. The returned function
// removes the subscription.
func (s *Session) Subscribe(fn func(Output)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Open targets name with a fresh default configuration.
func (s *Session) Open(ctx context.Context, name string) (Output, error) {
	return s.mutate(ctx, func(custom.Config) (custom.Config, error) {
		return custom.Defaults(s.accent).WithIcon(name), nil
	})
}

// Reset restores the defaults and keeps the current target.
func (s *Session) Reset(ctx context.Context) (Output, error) {
	return s.mutate(ctx, func(cur custom.Config) (custom.Config, error) {
		return custom.Defaults(s.accent).WithIcon(cur.Icon), nil
	})
}

// Set applies one textual field input. An invalid value returns an error
// wrapping custom.ErrConfigInvalid and changes nothing.
func (s *Session) Set(ctx context.Context, field, raw string) (Output, error) {
	return s.mutate(ctx, func(cur custom.Config) (custom.Config, error) {
		return cur.ParseField(field, raw)
	})
}

// Update replaces the configuration with fn's result. The target is kept
// unless fn changes it.
func (s *Session) Update(ctx context.Context, fn func(custom.Config) custom.Config) (Output, error) {
	return s.mutate(ctx, func(cur custom.Config) (custom.Config, error) {
		next := fn(cur)
		if err := next.Validate(); err != nil {
			return cur, err
		}
		return next, nil
	})
}

// Refresh re-renders the current configuration under a new version.
func (s *Session) Refresh(ctx context.Context) (Output, error) {
	return s.mutate(ctx, func(cur custom.Config) (custom.Config, error) {
		return cur, nil
	})
}

// mutate applies fn, stamps the result and renders it.
func (s *Session) mutate(ctx context.Context, fn func(custom.Config) (custom.Config, error)) (Output, error) {
	s.mu.Lock()
	next, err := fn(s.cfg)
	if err != nil {
		out := s.out
		s.mu.Unlock()
		s.logger.Debug("mutation rejected", "error", err)
		return out, err
	}
	version := s.clock.Next()
	s.cfg, s.cfgVersion = next, version
	s.rendering[version] = next
	s.mu.Unlock()

	out, err := s.render(ctx, next, version)
	if err != nil {
		s.abandon(version)
		s.logger.Debug("render abandoned", "version", version, "error", err)
		return s.Output(), err
	}
	s.publish(out)
	return s.Output(), nil
}

// abandon forgets a mutation whose render failed. If it was the latest
// one, the configuration falls back to the newest mutation still rendering
// or, failing that, to the published output, so Config never describes a
// render that will not arrive.
func (s *Session) abandon(version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rendering, version)
	if s.cfgVersion != version {
		return
	}
	s.cfg, s.cfgVersion = s.out.Config, s.out.Version
	for v, cfg := range s.rendering {
		if v > s.cfgVersion {
			s.cfg, s.cfgVersion = cfg, v
		}
	}
}

// render computes the output for cfg. Per-icon failures produce the
// placeholder; only cancellation and similar errors are returned.
func (s *Session) render(ctx context.Context, cfg custom.Config, version int64) (Output, error) {
	out := Output{Icon: cfg.Icon, Config: cfg, Version: version}
	if cfg.Icon == "" {
		return out, nil
	}

	src, err := s.assets.Get(ctx, cfg.Icon)
	if err != nil {
		if !asset.IsRecoverable(err) {
			return Output{}, fmt.Errorf("load %s: %w", cfg.Icon, err)
		}
		s.logger.Debug("rendering placeholder", "icon", cfg.Icon, "error", err)
		out.Placeholder = true
		out.Err = err
		src = asset.Placeholder
	}

	out.Inline, out.Export, err = renderPair(src, cfg)
	if err != nil && !out.Placeholder {
		out.Placeholder = true
		out.Err = err
		out.Inline, out.Export, err = renderPair(asset.Placeholder, cfg)
	}
	if err != nil {
		return Output{}, fmt.Errorf("render %s: %w", cfg.Icon, err)
	}
	return out, nil
}

func renderPair(src string, cfg custom.Config) (string, string, error) {
	inline, err := transform.Render(src, cfg, transform.Preview)
	if err != nil {
		return "", "", err
	}
	export, err := transform.Render(src, cfg, transform.Export)
	if err != nil {
		return "", "", err
	}
	return inline, export, nil
}

// publish installs out if it is newer than the published output.
func (s *Session) publish(out Output) {
	s.mu.Lock()
	delete(s.rendering, out.Version)
	if out.Version <= s.out.Version {
		current := s.out.Version
		s.mu.Unlock()
		s.logger.Debug("discarding stale render", "version", out.Version, "published", current)
		return
	}
	s.out = out
	subs := make([]func(Output), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.logger.Debug("render published", "icon", out.Icon, "version", out.Version, "placeholder", out.Placeholder)
	for _, fn := range subs {
		fn(out)
	}
}
