package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Overrides for the environment-derived settings.
	Catalog string
	Assets  string
	CacheDB string
	Accent  string

	// Settings is populated before any command runs.
	Settings config.Settings
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the svgo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "svgo",
		Short: "svgo - customizable icon library",
		Long: `Browse, customize and export icons from the S-V-Go library.

Settings are read from SVGO_* environment variables; the global flags
override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return opts.loadSettings(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "catalog URL or file (overrides SVGO_CATALOG_URL)")
	cmd.PersistentFlags().StringVar(&opts.Assets, "assets", "", "asset base URL or directory (overrides SVGO_ASSET_BASE)")
	cmd.PersistentFlags().StringVar(&opts.CacheDB, "cache-db", "", "SQLite file for the persistent asset cache (overrides SVGO_CACHE_DB)")
	cmd.PersistentFlags().StringVar(&opts.Accent, "accent", "", "accent colour for default fill and stroke (overrides SVGO_ACCENT)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadSettings reads the environment and applies flag overrides.
func (o *RootOptions) loadSettings(cmd *cobra.Command) error {
	formatter := newFormatter(cmd, o)
	s, err := config.Load()
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		s.CatalogURL = o.Catalog
	}
	if flags.Changed("assets") {
		s.AssetBase = o.Assets
	}
	if flags.Changed("cache-db") {
		s.CacheDB = o.CacheDB
	}
	if flags.Changed("accent") {
		s.Accent = o.Accent
	}
	if err := s.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	o.Settings = s
	return nil
}

// setupLogging installs the default slog handler on w. Verbose lowers the
// level to Debug.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
