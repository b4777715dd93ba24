// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/microresearch/svgo/internal/custom"
)

// Default locations of the published icon library.
const (
	DefaultCatalogURL = "https://raw.githubusercontent.com/MicroResearch-Corporation/S-V-Go/refs/heads/database/db.json"
	DefaultAssetBase  = "https://MicroResearch-Corporation.github.io/S-V-Go/src/svg/"
)

// ErrInvalid wraps every settings validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings is the environment-derived configuration. CLI flags override
// individual fields after Load.
type Settings struct {
	CatalogURL   string        `env:"SVGO_CATALOG_URL" envDefault:"https://raw.githubusercontent.com/MicroResearch-Corporation/S-V-Go/refs/heads/database/db.json"`
	AssetBase    string        `env:"SVGO_ASSET_BASE" envDefault:"https://MicroResearch-Corporation.github.io/S-V-Go/src/svg/"`
	CacheDB      string        `env:"SVGO_CACHE_DB"`
	Accent       string        `env:"SVGO_ACCENT" envDefault:"#6750a4"`
	FetchTimeout time.Duration `env:"SVGO_FETCH_TIMEOUT" envDefault:"15s"`
	BatchSize    int           `env:"SVGO_BATCH_SIZE" envDefault:"60"`
	RootMargin   float64       `env:"SVGO_ROOT_MARGIN" envDefault:"100"`
	Threshold    float64       `env:"SVGO_THRESHOLD" envDefault:"0.1"`
	UserAgent    string        `env:"SVGO_USER_AGENT" envDefault:"svgo"`
}

// Load parses the process environment.
func Load() (Settings, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Settings, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and the accent colour.
func (s Settings) Validate() error {
	switch {
	case s.CatalogURL == "":
		return fmt.Errorf("%w: catalog location is empty", ErrInvalid)
	case s.AssetBase == "":
		return fmt.Errorf("%w: asset base is empty", ErrInvalid)
	case s.FetchTimeout < 0:
		return fmt.Errorf("%w: fetch timeout %s is negative", ErrInvalid, s.FetchTimeout)
	case s.BatchSize <= 0:
		return fmt.Errorf("%w: batch size %d must be positive", ErrInvalid, s.BatchSize)
	case s.RootMargin < 0:
		return fmt.Errorf("%w: root margin %v is negative", ErrInvalid, s.RootMargin)
	case s.Threshold < 0 || s.Threshold > 1:
		return fmt.Errorf("%w: threshold %v is outside [0, 1]", ErrInvalid, s.Threshold)
	}
	if _, err := custom.ParseColor(s.Accent); err != nil {
		return fmt.Errorf("%w: accent: %v", ErrInvalid, err)
	}
	return nil
}

// AccentColor returns the parsed accent. Settings must be valid.
func (s Settings) AccentColor() custom.Color {
	c, err := custom.ParseColor(s.Accent)
	if err != nil {
		return custom.DefaultAccent
	}
	return c
}
