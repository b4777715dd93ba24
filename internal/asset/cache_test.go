package asset_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/store"
	"github.com/microresearch/svgo/internal/svgdoc"
	"github.com/microresearch/svgo/internal/testutil"
)

const homeSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M3 10l9-7 9 7"/></svg>`

func TestGet_FetchesOnceThenHits(t *testing.T) {
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	c := asset.New(f, testutil.NewNames("home"))

	_, ok := c.Lookup("home")
	assert.False(t, ok)

	src, err := c.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, src)

	src, err = c.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, src)

	cached, ok := c.Lookup("home")
	assert.True(t, ok)
	assert.Equal(t, homeSVG, cached)

	assert.Equal(t, 1, f.Calls("home"))
	stats := c.Stats()
	assert.Equal(t, asset.Stats{Entries: 1, Hits: 1, Misses: 1, Fetches: 1}, stats)
}

func TestGet_ConcurrentCallersShareOneFetch(t *testing.T) {
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	f.Gate()
	c := asset.New(f, testutil.NewNames("home"))

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "home")
		}(i)
	}

	<-f.Started()
	time.Sleep(20 * time.Millisecond)
	f.Release()
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, homeSVG, results[i])
	}
	assert.Equal(t, 1, f.Calls("home"), "exactly one fetch per name")
}

func TestGet_UnknownNameNeverFetches(t *testing.T) {
	f := testutil.NewFakeFetcher(map[string]string{"secret": homeSVG})
	c := asset.New(f, testutil.NewNames("home"))

	_, err := c.Get(context.Background(), "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
	assert.Equal(t, 0, f.Total())
	assert.Equal(t, 0, c.Len())
}

func TestGet_NotFoundIsNotCached(t *testing.T) {
	f := testutil.NewFakeFetcher(nil)
	c := asset.New(f, testutil.NewNames("home"))

	_, err := c.Get(context.Background(), "home")
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
	assert.True(t, asset.IsRecoverable(err))

	var fe *asset.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)

	f.Set("home", homeSVG)
	src, err := c.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, src)
	assert.Equal(t, 2, f.Calls("home"))
	assert.Equal(t, int64(1), c.Stats().Failures)
}

func TestGet_MalformedIsRejected(t *testing.T) {
	f := testutil.NewFakeFetcher(map[string]string{
		"broken": "<svg><path></svg>",
		"html":   "<html><body/></html>",
	})
	c := asset.New(f, nil)

	for _, name := range []string{"broken", "html"} {
		_, err := c.Get(context.Background(), name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, asset.ErrAssetMalformed), name)
		assert.True(t, errors.Is(err, svgdoc.ErrMalformed), name)
		_, ok := c.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestGet_CancelledWaiterLeavesFetchRunning(t *testing.T) {
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	f.Gate()
	c := asset.New(f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "home")
		done <- err
	}()

	<-f.Started()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	f.Release()
	require.Eventually(t, func() bool {
		_, ok := c.Lookup("home")
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.Calls("home"))
}

// memStore is an in-memory asset.Store.
type memStore struct {
	mu     sync.Mutex
	assets []store.Asset
	err    error
}

func (m *memStore) PutAsset(ctx context.Context, name, source string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, a := range m.assets {
		if a.Name == name {
			return false, nil
		}
	}
	m.assets = append(m.assets, store.Asset{Name: name, Source: source, Digest: store.Digest(source), Seq: int64(len(m.assets) + 1)})
	return true, nil
}

func (m *memStore) ListAssets(ctx context.Context) ([]store.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Asset(nil), m.assets...), m.err
}

func TestWithStore_PersistsAndWarms(t *testing.T) {
	ms := &memStore{}
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	c := asset.New(f, testutil.NewNames("home"), asset.WithStore(ms))

	_, err := c.Get(context.Background(), "home")
	require.NoError(t, err)
	require.Len(t, ms.assets, 1)

	fresh := testutil.NewFakeFetcher(nil)
	c2 := asset.New(fresh, testutil.NewNames("home"), asset.WithStore(ms))
	n, err := c2.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	src, err := c2.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, src)
	assert.Equal(t, 0, fresh.Total(), "warmed entries are not refetched")
}

func TestWarm_SkipsUntrustedEntries(t *testing.T) {
	ms := &memStore{assets: []store.Asset{
		{Name: "home", Source: homeSVG, Digest: store.Digest(homeSVG)},
		{Name: "gone", Source: homeSVG, Digest: store.Digest(homeSVG)},
		{Name: "tampered", Source: homeSVG, Digest: store.Digest("<svg/>")},
		{Name: "junk", Source: "<p>", Digest: store.Digest("<p>")},
	}}
	c := asset.New(testutil.NewFakeFetcher(nil), testutil.NewNames("home", "tampered", "junk"), asset.WithStore(ms))

	n, err := c.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok := c.Lookup("home")
	assert.True(t, ok)
	for _, name := range []string{"gone", "tampered", "junk"} {
		_, ok := c.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestWarm_KeepsExistingEntry(t *testing.T) {
	other := `<svg xmlns="http://www.w3.org/2000/svg"><circle r="1"/></svg>`
	ms := &memStore{}
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	c := asset.New(f, nil, asset.WithStore(ms))
	_, err := c.Get(context.Background(), "home")
	require.NoError(t, err)

	ms.assets[0] = store.Asset{Name: "home", Source: other, Digest: store.Digest(other)}
	_, err = c.Warm(context.Background())
	require.NoError(t, err)

	src, _ := c.Lookup("home")
	assert.Equal(t, homeSVG, src, "entries are write-once")
}

func TestWithStore_PersistFailureDoesNotFailGet(t *testing.T) {
	ms := &memStore{err: errors.New("disk full")}
	f := testutil.NewFakeFetcher(map[string]string{"home": homeSVG})
	c := asset.New(f, nil, asset.WithStore(ms))

	src, err := c.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, src)

	_, err = c.Warm(context.Background())
	assert.Error(t, err)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/svg/home.svg":
			assert.Equal(t, "svgo-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(homeSVG))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := asset.NewFetcher(srv.URL+"/svg/", srv.Client(), "svgo-test")
	hf, ok := f.(*asset.HTTPFetcher)
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/svg/home.svg", hf.URL("home"))

	data, err := f.Fetch(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, homeSVG, string(data))

	_, err = f.Fetch(context.Background(), "missing")
	var fe *asset.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
	assert.Contains(t, err.Error(), "status 404")

	_, err = f.Fetch(context.Background(), "../secret")
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
}

func TestHTTPFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := &asset.HTTPFetcher{Base: url}
	_, err := f.Fetch(context.Background(), "home")
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.svg"), []byte(homeSVG), 0o644))

	for _, f := range []asset.Fetcher{asset.NewFetcher(dir, nil, ""), asset.NewFetcher("file://"+dir, nil, "")} {
		_, ok := f.(*asset.DirFetcher)
		require.True(t, ok)

		data, err := f.Fetch(context.Background(), "home")
		require.NoError(t, err)
		assert.Equal(t, homeSVG, string(data))

		_, err = f.Fetch(context.Background(), "missing")
		assert.True(t, errors.Is(err, asset.ErrAssetNotFound))
	}
}

func TestPlaceholderIsValidSVG(t *testing.T) {
	doc, err := svgdoc.ParseString(asset.Placeholder)
	require.NoError(t, err)
	assert.Equal(t, "svg", doc.Root.Name.Local)
}
