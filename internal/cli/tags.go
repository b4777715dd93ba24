package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/catalog"
)

// NewTagsCommand creates the tags command.
func NewTagsCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show the most common name tags",
		Long: `Show tags derived from icon names, most frequent first.

Example:
  svgo tags --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, rootOpts)

			cat, err := loadCatalog(cmd.Context(), rootOpts.Settings)
			if err != nil {
				return formatter.Fail(ExitCommandError, err)
			}

			tags := cat.Tags(limit)
			if tags == nil {
				tags = []catalog.Tag{}
			}
			return formatter.Emit(tags, func(w io.Writer) {
				for _, t := range tags {
					fmt.Fprintf(w, "%-20s %d\n", t.Name, t.Count)
				}
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", catalog.DefaultTagLimit, "number of tags")
	return cmd
}
