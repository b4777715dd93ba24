// Package gallery is the paginated grid of icon cards that feeds the
// scheduler.
//
// A search replaces the result set. Cards are revealed in batches; each
// revealed card is registered with the scheduler under a slot named after
// its grid index and reported with the bounds of its grid cell. The
// scheduler decides when a card's icon is actually loaded.
package gallery

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/microresearch/svgo/internal/catalog"
	"github.com/microresearch/svgo/internal/scheduler"
)

// DefaultBatchSize is the number of cards revealed per page.
const DefaultBatchSize = 60

// Registrar is the part of *scheduler.Scheduler the gallery drives.
type Registrar interface {
	Register(id scheduler.SlotID, name string) bool
	Unregister(id scheduler.SlotID) bool
	Observe(entries ...scheduler.Entry) bool
}

// Layout is a fixed grid of equally sized cells.
type Layout struct {
	Columns int     `json:"columns"`
	CellW   float64 `json:"cell_w"`
	CellH   float64 `json:"cell_h"`
	Gap     float64 `json:"gap"`
}

// DefaultLayout approximates the desktop gallery grid.
var DefaultLayout = Layout{Columns: 6, CellW: 160, CellH: 180, Gap: 16}

// Bounds returns the cell rectangle of the card at index.
func (l Layout) Bounds(index int) scheduler.Rect {
	cols := max(l.Columns, 1)
	row, col := index/cols, index%cols
	return scheduler.Rect{
		X: float64(col) * (l.CellW + l.Gap),
		Y: float64(row) * (l.CellH + l.Gap),
		W: l.CellW,
		H: l.CellH,
	}
}

// Width is the width of a full row.
func (l Layout) Width() float64 {
	cols := max(l.Columns, 1)
	return float64(cols)*l.CellW + float64(cols-1)*l.Gap
}

// RowHeight is the vertical distance between consecutive rows.
func (l Layout) RowHeight() float64 {
	return l.CellH + l.Gap
}

// Viewport returns a full-width viewport showing rows rows starting at
// row first.
func (l Layout) Viewport(first, rows int) scheduler.Rect {
	return scheduler.Rect{
		Y: float64(first) * l.RowHeight(),
		W: l.Width(),
		H: float64(rows)*l.RowHeight() - l.Gap,
	}
}

// SlotFor names the slot of the card at index.
func SlotFor(index int) scheduler.SlotID {
	return scheduler.SlotID("card-" + strconv.Itoa(index))
}

// Card is one revealed result.
type Card struct {
	Index  int              `json:"index"`
	Slot   scheduler.SlotID `json:"slot"`
	Name   string           `json:"name"`
	ID     catalog.ID       `json:"id,omitempty"`
	Bounds scheduler.Rect   `json:"bounds"`
}

// Option configures a Gallery.
type Option func(*Gallery)

// WithBatchSize sets the page size. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(g *Gallery) {
		if n > 0 {
			g.batch = n
		}
	}
}

// WithLayout sets the grid layout.
func WithLayout(l Layout) Option {
	return func(g *Gallery) { g.layout = l }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Gallery) {
		if l != nil {
			g.logger = l
		}
	}
}

// Gallery tracks the current result set and the revealed cards.
// All methods are safe for concurrent use.
type Gallery struct {
	catalog *catalog.Catalog
	reg     Registrar
	batch   int
	layout  Layout
	logger  *slog.Logger

	mu      sync.Mutex
	query   catalog.Query
	results []catalog.Record
	cards   []Card
}

// New creates an empty gallery. Call Search to populate it.
func New(cat *catalog.Catalog, reg Registrar, opts ...Option) *Gallery {
	g := &Gallery{
		catalog: cat,
		reg:     reg,
		batch:   DefaultBatchSize,
		layout:  DefaultLayout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Search replaces the result set with the records matching q, detaches
// every previously revealed card and reveals the first batch. It returns
// the number of matching records.
func (g *Gallery) Search(q catalog.Query) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, c := range g.cards {
		g.reg.Unregister(c.Slot)
	}
	g.query = q
	g.results = g.catalog.Filter(q)
	g.cards = nil
	g.reveal()

	g.logger.Debug("gallery search", "text", q.Text, "tag", q.Tag, "results", len(g.results))
	return len(g.results)
}

// LoadMore reveals the next batch and returns the new cards. It returns
// nil when every result is already shown.
func (g *Gallery) LoadMore() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reveal()
}

// reveal registers the next batch. Caller holds mu.
func (g *Gallery) reveal() []Card {
	start := len(g.cards)
	page := catalog.Page(g.results, start, g.batch)
	if len(page) == 0 {
		return nil
	}

	added := make([]Card, len(page))
	entries := make([]scheduler.Entry, len(page))
	for i, rec := range page {
		idx := start + i
		c := Card{
			Index:  idx,
			Slot:   SlotFor(idx),
			Name:   rec.Name,
			ID:     rec.ID,
			Bounds: g.layout.Bounds(idx),
		}
		g.reg.Register(c.Slot, c.Name)
		added[i] = c
		entries[i] = scheduler.Entry{Slot: c.Slot, Bounds: c.Bounds}
	}
	g.reg.Observe(entries...)
	g.cards = append(g.cards, added...)
	return added
}

// Query returns the active query.
func (g *Gallery) Query() catalog.Query {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query
}

// Cards returns the revealed cards in grid order.
func (g *Gallery) Cards() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// Total returns the size of the result set.
func (g *Gallery) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.results)
}

// HasMore reports whether LoadMore would reveal anything.
func (g *Gallery) HasMore() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cards) < len(g.results)
}

// Rows returns the number of grid rows the revealed cards occupy.
func (g *Gallery) Rows() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	cols := max(g.layout.Columns, 1)
	return (len(g.cards) + cols - 1) / cols
}

// Layout returns the grid layout.
func (g *Gallery) Layout() Layout {
	return g.layout
}
