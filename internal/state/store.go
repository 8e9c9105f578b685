package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/atlas/internal/logging"
	"github.com/five82/atlas/internal/restcountries"
)

// Status is the load state of the record set.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// Generation tags a load request. Each Begin hands out a larger one.
type Generation uint64

// Criteria says which record set a load is for. An empty Region means
// every country.
type Criteria struct {
	Region string
}

// Key identifies the criteria in caches and logs.
func (c Criteria) Key() string {
	if c.Region == "" {
		return "all"
	}
	return "region:" + c.Region
}

// Result is what a finished load hands back to the store.
type Result struct {
	Criteria Criteria
	Records  []restcountries.Country
	Err      error
	// Cached marks Records as an offline copy served because the fetch
	// failed. Err is still set.
	Cached    bool
	FetchedAt time.Time
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records     []restcountries.Country
	Status      Status
	Message     string
	Criteria    Criteria
	LastUpdated time.Time
	Generation  Generation
	// Stale is set while Records come from the offline cache.
	Stale               bool
	LastError           error
	ConsecutiveFailures int
}

// Loading reports whether a request is in flight.
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoading
}

// IsOffline returns true when the API has failed several loads in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the record set. Loads finish on other goroutines, so access
// is serialised.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	latest   Generation
}

// Begin marks a load for c as in flight and returns its generation. Any
// load begun earlier becomes stale.
func (s *Store) Begin(c Criteria) Generation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	s.snapshot.Status = StatusLoading
	s.snapshot.Message = ""
	s.snapshot.Criteria = c
	s.snapshot.Generation = s.latest
	return s.latest
}

// Complete stores the result of the load tagged gen. Results for anything
// but the newest generation are dropped and Complete reports false. When
// the load failed the previous records are kept unless the result carries
// a cached copy.
func (s *Store) Complete(gen Generation, r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.latest {
		logging.Debug("stale load dropped",
			"generation", uint64(gen),
			"latest", uint64(s.latest),
			"criteria", r.Criteria.Key(),
		)
		return false
	}

	now := time.Now()
	s.snapshot.Criteria = r.Criteria
	s.snapshot.LastUpdated = now

	if r.Err != nil {
		s.snapshot.Status = StatusError
		s.snapshot.Message = r.Err.Error()
		s.snapshot.LastError = r.Err
		s.snapshot.ConsecutiveFailures++
		if r.Cached {
			s.snapshot.Records = cloneRecords(r.Records)
			s.snapshot.Stale = true
			if !r.FetchedAt.IsZero() {
				s.snapshot.LastUpdated = r.FetchedAt
			}
		}
		return true
	}

	s.snapshot.Records = cloneRecords(r.Records)
	s.snapshot.Status = StatusIdle
	s.snapshot.Message = ""
	s.snapshot.Stale = false
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if snap.Status == "" {
		snap.Status = StatusIdle
	}
	snap.Records = cloneRecords(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecords(records []restcountries.Country) []restcountries.Country {
	if len(records) == 0 {
		return nil
	}
	dup := make([]restcountries.Country, len(records))
	copy(dup, records)
	return dup
}
