package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/five82/atlas/internal/cache"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]restcountries.Country
	errs    []error // consumed one per list call
	byName  map[string]*restcountries.Country
}

func (f *fakeFetcher) list(key string) ([]restcountries.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.results[key], nil
}

func (f *fakeFetcher) FetchAll(context.Context) ([]restcountries.Country, error) {
	return f.list("all")
}

func (f *fakeFetcher) FetchByRegion(_ context.Context, region string) ([]restcountries.Country, error) {
	return f.list("region:" + region)
}

func (f *fakeFetcher) FetchByName(_ context.Context, name string) (*restcountries.Country, error) {
	return f.byName[name], nil
}

func (f *fakeFetcher) FetchByCodes(_ context.Context, codes []string) ([]restcountries.Country, error) {
	out := make([]restcountries.Country, 0, len(codes))
	for _, code := range codes {
		out = append(out, restcountries.Country{CCA3: code})
	}
	return out, nil
}

func named(names ...string) []restcountries.Country {
	out := make([]restcountries.Country, len(names))
	for i, n := range names {
		out[i] = restcountries.Country{Name: restcountries.Name{Common: n}}
	}
	return out
}

func newTestLoader(t *testing.T, f *fakeFetcher, withCache bool) (*Loader, *state.Store, *cache.Cache) {
	t.Helper()
	store := &state.Store{}
	var rc RecordCache
	var c *cache.Cache
	if withCache {
		var err error
		c, err = cache.Open(filepath.Join(t.TempDir(), "countries.db"))
		if err != nil {
			t.Fatalf("cache.Open: %v", err)
		}
		t.Cleanup(func() { c.Close() })
		rc = c
	}
	l := NewLoader(f, rc, store)
	l.retryBase = time.Millisecond
	return l, store, c
}

func TestLoader_LoadsRegionAndCaches(t *testing.T) {
	f := &fakeFetcher{results: map[string][]restcountries.Country{"region:Europe": named("France", "Spain")}}
	l, store, c := newTestLoader(t, f, true)

	gen := store.Begin(state.Criteria{Region: "Europe"})
	if !l.Load(context.Background(), gen, state.Criteria{Region: "Europe"}) {
		t.Fatal("Load returned false")
	}

	snap := store.Snapshot()
	if snap.Status != state.StatusIdle || len(snap.Records) != 2 {
		t.Fatalf("snapshot = %#v", snap)
	}
	cached, _, ok, err := c.Get("region:Europe")
	if err != nil || !ok || len(cached) != 2 {
		t.Fatalf("cache after load: ok=%v err=%v records=%v", ok, err, cached)
	}
}

func TestLoader_EmptyRegionFetchesAll(t *testing.T) {
	f := &fakeFetcher{results: map[string][]restcountries.Country{"all": named("Chad")}}
	l, store, _ := newTestLoader(t, f, false)

	l.Load(context.Background(), store.Begin(state.Criteria{}), state.Criteria{})
	if len(f.calls) != 1 || f.calls[0] != "all" {
		t.Fatalf("calls = %v, want [all]", f.calls)
	}
}

func TestLoader_RetriesTransientErrors(t *testing.T) {
	f := &fakeFetcher{
		results: map[string][]restcountries.Country{"all": named("Peru")},
		errs:    []error{errors.New("reset"), errors.New("timeout")},
	}
	l, store, _ := newTestLoader(t, f, false)

	l.Load(context.Background(), store.Begin(state.Criteria{}), state.Criteria{})
	if len(f.calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(f.calls))
	}
	if snap := store.Snapshot(); snap.Status != state.StatusIdle || len(snap.Records) != 1 {
		t.Fatalf("snapshot = %#v", snap)
	}
}

func TestLoader_NotFoundIsNotRetried(t *testing.T) {
	f := &fakeFetcher{errs: []error{fmt.Errorf("api /region/Atlantis: %w", restcountries.ErrNotFound)}}
	l, store, _ := newTestLoader(t, f, false)

	l.Load(context.Background(), store.Begin(state.Criteria{Region: "Atlantis"}), state.Criteria{Region: "Atlantis"})
	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.calls))
	}
	if snap := store.Snapshot(); snap.Status != state.StatusError {
		t.Fatalf("Status = %q, want error", snap.Status)
	}
}

func TestLoader_FallsBackToCache(t *testing.T) {
	f := &fakeFetcher{errs: []error{errors.New("a"), errors.New("b"), errors.New("offline")}}
	l, store, c := newTestLoader(t, f, true)

	fetched := time.Unix(1700000000, 0)
	if err := c.Put("all", named("Fiji", "Samoa"), fetched); err != nil {
		t.Fatal(err)
	}

	l.Load(context.Background(), store.Begin(state.Criteria{}), state.Criteria{})

	snap := store.Snapshot()
	if snap.Status != state.StatusError || !snap.Stale {
		t.Fatalf("status = %q stale = %v", snap.Status, snap.Stale)
	}
	if len(snap.Records) != 2 || !snap.LastUpdated.Equal(fetched) {
		t.Fatalf("records = %v updated = %v", snap.Records, snap.LastUpdated)
	}
	if snap.Message != "offline" {
		t.Fatalf("Message = %q, want offline", snap.Message)
	}
}

func TestLoader_StaleGenerationIsDropped(t *testing.T) {
	f := &fakeFetcher{results: map[string][]restcountries.Country{
		"region:Asia":   named("Japan"),
		"region:Europe": named("France"),
	}}
	l, store, _ := newTestLoader(t, f, false)

	asia := store.Begin(state.Criteria{Region: "Asia"})
	europe := store.Begin(state.Criteria{Region: "Europe"})

	if !l.Load(context.Background(), europe, state.Criteria{Region: "Europe"}) {
		t.Fatal("latest load rejected")
	}
	if l.Load(context.Background(), asia, state.Criteria{Region: "Asia"}) {
		t.Fatal("stale load accepted")
	}
	if got := store.Snapshot().Records[0].Name.Common; got != "France" {
		t.Fatalf("records = %q, want France", got)
	}
}

func TestLoader_CancelledContextStopsRetrying(t *testing.T) {
	f := &fakeFetcher{errs: []error{context.Canceled, context.Canceled, context.Canceled}}
	l, store, _ := newTestLoader(t, f, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l.Load(ctx, store.Begin(state.Criteria{}), state.Criteria{})
	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.calls))
	}
}

func TestLoader_CountryAndBorders(t *testing.T) {
	peru := &restcountries.Country{Name: restcountries.Name{Common: "Peru"}, Borders: []string{"BOL", "CHL"}}
	f := &fakeFetcher{byName: map[string]*restcountries.Country{"Peru": peru}}
	l, _, _ := newTestLoader(t, f, false)

	got, err := l.Country(context.Background(), "Peru")
	if err != nil || got == nil || got.Name.Common != "Peru" {
		t.Fatalf("Country = %v, %v", got, err)
	}
	missing, err := l.Country(context.Background(), "Atlantis")
	if err != nil || missing != nil {
		t.Fatalf("Country(Atlantis) = %v, %v; want nil, nil", missing, err)
	}

	borders, err := l.Borders(context.Background(), got.Borders)
	if err != nil || len(borders) != 2 || borders[1].CCA3 != "CHL" {
		t.Fatalf("Borders = %v, %v", borders, err)
	}
	if none, err := l.Borders(context.Background(), nil); none != nil || err != nil {
		t.Fatalf("Borders(nil) = %v, %v", none, err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}
