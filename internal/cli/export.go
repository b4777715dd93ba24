package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/transform"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	CustomizeOptions
	Out string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Icon  string `json:"icon"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <icon>",
		Short: "Write a customized icon to <icon>-custom.svg",
		Long: `Write the formatted export markup of a customized icon to a file
named <icon>-custom.svg in the output directory.

Examples:
  svgo export home --size 64 --fill navy
  svgo export home --preset brand.cue --out ./icons`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", ".", "output directory")

	return cmd
}

func runExport(opts *ExportOptions, icon string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	if info, err := os.Stat(opts.Out); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("output directory not found: %s", opts.Out))
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

	path := filepath.Join(opts.Out, transform.Filename(out.Icon))
	if err := os.WriteFile(path, []byte(out.Export), 0644); err != nil {
		return formatter.FailAs(ErrCodeWriteFailed, ExitCommandError, fmt.Errorf("writing %s: %w", path, err))
	}
	formatter.VerboseLog("wrote %d bytes", len(out.Export))

	return formatter.Emit(ExportResult{Icon: out.Icon, Path: path, Bytes: len(out.Export)}, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Wrote %s\n", path)
	})
}
