package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/catalog"
	"github.com/microresearch/svgo/internal/gallery"
	"github.com/microresearch/svgo/internal/scheduler"
)

// BrowseOptions holds flags for the browse command.
type BrowseOptions struct {
	*RootOptions
	Search  string
	Tag     string
	Rows    int
	Columns int
	Pages   int
}

// CardResult is the load outcome of one card.
type CardResult struct {
	Slot  string `json:"slot"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// BrowseResult is the JSON payload of the browse command.
type BrowseResult struct {
	Matched   int             `json:"matched"`
	Revealed  int             `json:"revealed"`
	Loaded    []CardResult    `json:"loaded"`
	Failed    []CardResult    `json:"failed"`
	Scheduler scheduler.Stats `json:"scheduler"`
	Cache     asset.Stats     `json:"cache"`
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BrowseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Simulate scrolling the gallery",
		Long: `Simulate scrolling through the gallery grid.

The viewport shows --rows rows of --columns cards and scrolls down one
viewport per page for --pages pages. Cards are revealed in batches of
SVGO_BATCH_SIZE and only icons near the viewport are fetched. Icons that
fail to load are reported; they would show the placeholder.

Examples:
  svgo browse --search arrow
  svgo browse --tag home --pages 3 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name or id")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "filter by tag")
	cmd.Flags().IntVar(&opts.Rows, "rows", 3, "visible rows per viewport")
	cmd.Flags().IntVar(&opts.Columns, "columns", gallery.DefaultLayout.Columns, "cards per row")
	cmd.Flags().IntVar(&opts.Pages, "pages", 1, "viewports to scroll through")

	return cmd
}

func runBrowse(opts *BrowseOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)
	if opts.Rows <= 0 || opts.Columns <= 0 || opts.Pages <= 0 {
		return NewExitError(ExitCommandError, "rows, columns and pages must be positive")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := openRuntime(ctx, opts.Settings)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	defer rt.Close()

	var mu sync.Mutex
	var loaded, failed []CardResult
	sched := scheduler.New(rt.cache, func(d scheduler.Delivery) {
		mu.Lock()
		defer mu.Unlock()
		if d.Err != nil {
			failed = append(failed, CardResult{Slot: string(d.Slot), Name: d.Name, Error: d.Err.Error()})
			return
		}
		loaded = append(loaded, CardResult{Slot: string(d.Slot), Name: d.Name})
	},
		scheduler.WithMargin(opts.Settings.RootMargin),
		scheduler.WithThreshold(opts.Settings.Threshold),
	)

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	layout := gallery.DefaultLayout
	layout.Columns = opts.Columns
	g := gallery.New(rt.catalog, sched,
		gallery.WithLayout(layout),
		gallery.WithBatchSize(opts.Settings.BatchSize),
	)

	matched := g.Search(catalog.Query{Text: opts.Search, Tag: opts.Tag})
	for page := 0; page < opts.Pages; page++ {
		first := page * opts.Rows
		// Reveal the next batch once the viewport reaches the last
		// revealed row, like the infinite-scroll sentinel.
		for g.HasMore() && first+opts.Rows >= g.Rows() {
			g.LoadMore()
		}
		sched.Scroll(layout.Viewport(first, opts.Rows))
		if err := sched.Flush(ctx); err != nil {
			return formatter.Fail(ExitCommandError, err)
		}
		formatter.VerboseLog("page %d: %d cards revealed", page+1, len(g.Cards()))
	}

	sched.Stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return formatter.Fail(ExitCommandError, err)
	}

	cards := g.Cards()
	index := make(map[string]int, len(cards))
	for _, c := range cards {
		index[string(c.Slot)] = c.Index
	}
	result := BrowseResult{
		Matched:   matched,
		Revealed:  len(cards),
		Loaded:    sortCards(loaded, index),
		Failed:    sortCards(failed, index),
		Scheduler: sched.Stats(),
		Cache:     rt.cache.Stats(),
	}

	return formatter.Emit(result, func(w io.Writer) { writeBrowseText(w, result) })
}

func writeBrowseText(w io.Writer, result BrowseResult) {
	fmt.Fprintf(w, "%d matching icons, %d cards revealed\n", result.Matched, result.Revealed)
	fmt.Fprintf(w, "Loaded %d icons:\n", len(result.Loaded))
	for _, c := range result.Loaded {
		fmt.Fprintf(w, "  ✓ %-10s %s\n", c.Slot, c.Name)
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "Placeholder for %d icons:\n", len(result.Failed))
		for _, c := range result.Failed {
			fmt.Fprintf(w, "  ✗ %-10s %s: %s\n", c.Slot, c.Name, c.Error)
		}
	}
	fmt.Fprintf(w, "Pending %d, fetched %d, cache hits %d\n",
		result.Scheduler.Pending, result.Cache.Fetches, result.Cache.Hits)
}

// sortCards orders cards by grid index.
func sortCards(cards []CardResult, index map[string]int) []CardResult {
	if cards == nil {
		return []CardResult{}
	}
	sort.Slice(cards, func(i, j int) bool {
		return index[cards[i].Slot] < index[cards[j].Slot]
	})
	return cards
}
