package app

import (
	"context"
	"errors"
	"time"

	"github.com/five82/atlas/internal/logging"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

const (
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
	maxAttempts      = 3
)

// RecordCache is the offline copy the loader writes after every successful
// fetch and reads when a fetch fails.
type RecordCache interface {
	Put(key string, records []restcountries.Country, fetchedAt time.Time) error
	Get(key string) ([]restcountries.Country, time.Time, bool, error)
}

// Loader fetches record sets and hands them to the store. It is the only
// writer of the store; the UI decides when to load.
type Loader struct {
	client    restcountries.Fetcher
	cache     RecordCache
	store     *state.Store
	retryBase time.Duration
	now       func() time.Time
}

// NewLoader builds a Loader. cache may be nil.
func NewLoader(client restcountries.Fetcher, cache RecordCache, store *state.Store) *Loader {
	return &Loader{
		client:    client,
		cache:     cache,
		store:     store,
		retryBase: defaultRetryBase,
		now:       time.Now,
	}
}

// Load fetches the records for c and completes generation gen with them.
// It blocks and reports whether the store accepted the result.
func (l *Loader) Load(ctx context.Context, gen state.Generation, c state.Criteria) bool {
	records, err := l.fetch(ctx, c)
	if err == nil {
		fetchedAt := l.now()
		if l.cache != nil {
			if err := l.cache.Put(c.Key(), records, fetchedAt); err != nil {
				logging.Warn("cache write failed", "criteria", c.Key(), "error", err)
			}
		}
		logging.Info("records loaded", "criteria", c.Key(), "count", len(records), "generation", uint64(gen))
		return l.store.Complete(gen, state.Result{Criteria: c, Records: records, FetchedAt: fetchedAt})
	}

	logging.Warn("load failed", "criteria", c.Key(), "error", err)
	res := state.Result{Criteria: c, Err: err}
	if l.cache != nil {
		cached, fetchedAt, ok, cerr := l.cache.Get(c.Key())
		switch {
		case cerr != nil:
			logging.Warn("cache read failed", "criteria", c.Key(), "error", cerr)
		case ok:
			logging.Info("serving cached records", "criteria", c.Key(), "count", len(cached), "fetched_at", fetchedAt)
			res.Records, res.FetchedAt, res.Cached = cached, fetchedAt, true
		}
	}
	return l.store.Complete(gen, res)
}

// Country looks up a single country by name. A name the API does not know
// yields nil without an error.
func (l *Loader) Country(ctx context.Context, name string) (*restcountries.Country, error) {
	c, err := l.client.FetchByName(ctx, name)
	if err != nil {
		logging.Warn("country lookup failed", "name", name, "error", err)
		return nil, err
	}
	return c, nil
}

// Borders resolves border codes to countries.
func (l *Loader) Borders(ctx context.Context, codes []string) ([]restcountries.Country, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	out, err := l.client.FetchByCodes(ctx, codes)
	if err != nil {
		logging.Warn("border lookup failed", "codes", codes, "error", err)
		return nil, err
	}
	return out, nil
}

func (l *Loader) fetch(ctx context.Context, c state.Criteria) ([]restcountries.Country, error) {
	for attempt := 0; ; attempt++ {
		records, err := l.fetchOnce(ctx, c)
		if err == nil {
			return records, nil
		}
		if errors.Is(err, restcountries.ErrNotFound) || ctx.Err() != nil || attempt+1 >= maxAttempts {
			return nil, err
		}

		delay := calculateBackoff(attempt, l.retryBase)
		logging.Debug("retrying load", "criteria", c.Key(), "attempt", attempt+1, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Loader) fetchOnce(ctx context.Context, c state.Criteria) ([]restcountries.Country, error) {
	if c.Region == "" {
		return l.client.FetchAll(ctx)
	}
	return l.client.FetchByRegion(ctx, c.Region)
}

// calculateBackoff doubles base for every failure so far, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
