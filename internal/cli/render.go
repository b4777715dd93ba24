package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/session"
	"github.com/microresearch/svgo/internal/transform"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	CustomizeOptions
	Mode string
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Icon     string        `json:"icon"`
	Mode     string        `json:"mode"`
	Config   custom.Config `json:"config"`
	Markup   string        `json:"markup"`
	Filename string        `json:"filename"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <icon>",
		Short: "Render a customized icon",
		Long: `Render a customized icon to stdout.

Modes:
  preview   compact single-line markup (default)
  export    formatted markup with the provenance comment
  download  compact markup with the provenance comment

Exit codes:
  0 - Rendered
  1 - The icon could not be loaded
  2 - Command error (catalog unavailable, invalid customization)

Examples:
  svgo render home --size 48 --fill "#ff0000" --rotate 90
  svgo render home --preset bold.yaml --mode export
  svgo render home --stroke-width 0 --animate --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Mode, "mode", "preview", "output mode (preview|export|download)")

	return cmd
}

func runRender(opts *RenderOptions, icon string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	mode, ok := transform.ParseMode(opts.Mode)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid mode %q: must be preview, export or download", opts.Mode))
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, opts.Settings)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	defer rt.Close()

	out, err := customize(ctx, rt, icon, &opts.CustomizeOptions, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	if out.Placeholder {
		return formatter.Fail(ExitFailure, fmt.Errorf("icon %s: %w", icon, out.Err))
	}

	markup, err := markupFor(rt, out, mode)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	formatter.VerboseLog("rendered %s (version %d)", out.Icon, out.Version)

	return formatter.Emit(RenderResult{
		Icon:     out.Icon,
		Mode:     opts.Mode,
		Config:   out.Config,
		Markup:   markup,
		Filename: transform.Filename(out.Icon),
	}, func(w io.Writer) {
		fmt.Fprintln(w, markup)
	})
}

// markupFor selects the session output for mode, rendering the download
// form from the cached source.
func markupFor(rt *runtime, out session.Output, mode transform.Mode) (string, error) {
	switch mode {
	case transform.Preview:
		return out.Inline, nil
	case transform.Export:
		return out.Export, nil
	}
	src, ok := rt.cache.Lookup(out.Icon)
	if !ok {
		return "", fmt.Errorf("icon %s: %w", out.Icon, asset.ErrAssetNotFound)
	}
	return transform.Render(src, out.Config, mode)
}
