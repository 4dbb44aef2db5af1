package store

import (
	"errors"
	"sync"

	"github.com/mgrady78/weather-fetch/internal/report"
)

var (
	// ErrNotReady is returned before the first successful fetch cycle.
	ErrNotReady = errors.New("no report available yet")
)

// ReportStore is a concurrency-safe holder for the most recent report.
// Only the latest cycle is kept; past results are not retained.
type ReportStore struct {
	mu     sync.RWMutex
	latest *report.Report
}

// NewReportStore creates an empty ReportStore.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Save replaces the held report with the given one.
func (s *ReportStore) Save(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r
}

// Latest returns the most recent report, or ErrNotReady if no cycle has
// completed yet.
func (s *ReportStore) Latest() (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, ErrNotReady
	}
	return s.latest, nil
}
