package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search string
	Tag    string
	Offset int
	Limit  int
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Total   int              `json:"total"`   // catalog size as published
	Matched int              `json:"matched"` // records matching the query
	Offset  int              `json:"offset"`
	Records []catalog.Record `json:"records"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog icons",
		Long: `List icons in the catalog, optionally filtered.

--search matches the name or id case-insensitively; --tag matches names
containing the tag. Results are paged with --offset and --limit.

Examples:
  svgo list --search arrow
  svgo list --tag home --limit 10
  svgo list --offset 60 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name or id")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "filter by tag")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "skip this many results")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size (default SVGO_BATCH_SIZE)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	if opts.Offset < 0 || opts.Limit < 0 {
		return NewExitError(ExitCommandError, "offset and limit must be non-negative")
	}
	limit := opts.Limit
	if limit == 0 {
		limit = opts.Settings.BatchSize
	}

	cat, err := loadCatalog(cmd.Context(), opts.Settings)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	matched := cat.Filter(catalog.Query{Text: opts.Search, Tag: opts.Tag})
	page := catalog.Page(matched, opts.Offset, limit)
	formatter.VerboseLog("%d of %d records match", len(matched), cat.Len())

	if page == nil {
		page = []catalog.Record{}
	}
	result := ListResult{
		Total:   cat.Total(),
		Matched: len(matched),
		Offset:  opts.Offset,
		Records: page,
	}
	return formatter.Emit(result, func(w io.Writer) {
		for _, r := range result.Records {
			if r.ID != "" {
				fmt.Fprintf(w, "%s\t%s\n", r.Name, r.ID)
			} else {
				fmt.Fprintln(w, r.Name)
			}
		}
		fmt.Fprintf(w, "\nShowing %d of %d matching icons (%d in library)\n", len(result.Records), result.Matched, result.Total)
	})
}
