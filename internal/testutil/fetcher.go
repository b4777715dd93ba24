package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/microresearch/svgo/internal/asset"
)

// FakeFetcher serves icon sources from memory and counts calls.
//
// Gate makes subsequent fetches block until Release, which lets tests hold a
// fetch in flight while they pile up concurrent callers.
//
// Thread-safety: All methods are safe for concurrent use.
type FakeFetcher struct {
	mu      sync.Mutex
	sources map[string]string
	calls   map[string]int
	gate    chan struct{}
	started chan string
}

// NewFakeFetcher creates a fetcher over sources. Names not in sources fail
// with asset.ErrAssetNotFound and status 404.
func NewFakeFetcher(sources map[string]string) *FakeFetcher {
	copied := make(map[string]string, len(sources))
	for k, v := range sources {
		copied[k] = v
	}
	return &FakeFetcher{
		sources: copied,
		calls:   make(map[string]int),
		started: make(chan string, 256),
	}
}

// Fetch implements asset.Fetcher.
func (f *FakeFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	f.calls[name]++
	gate := f.gate
	f.mu.Unlock()

	select {
	case f.started <- name:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	src, ok := f.sources[name]
	f.mu.Unlock()
	if !ok {
		return nil, &asset.FetchError{Name: name, Status: http.StatusNotFound, Err: asset.ErrAssetNotFound}
	}
	return []byte(src), nil
}

// Set adds or replaces the source served for name.
func (f *FakeFetcher) Set(name, src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[name] = src
}

// Gate blocks fetches that start after this call until Release.
func (f *FakeFetcher) Gate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks every gated fetch.
func (f *FakeFetcher) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Started receives the name of each fetch as it begins.
func (f *FakeFetcher) Started() <-chan string {
	return f.started
}

// Calls returns how many times name was fetched.
func (f *FakeFetcher) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// Total returns the number of fetches across all names.
func (f *FakeFetcher) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Names is a catalog membership set for asset.New.
type Names map[string]bool

// NewNames builds a Names set.
func NewNames(names ...string) Names {
	n := make(Names, len(names))
	for _, name := range names {
		n[name] = true
	}
	return n
}

// Has implements asset.Catalog.
func (n Names) Has(name string) bool {
	return n[name]
}
