package store

import (
	"errors"
	"testing"
	"time"

	"github.com/mgrady78/weather-fetch/internal/report"
)

func TestLatestBeforeFirstSave(t *testing.T) {
	s := NewReportStore()

	if _, err := s.Latest(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("error = %v, want ErrNotReady", err)
	}
}

func TestSaveKeepsOnlyLatest(t *testing.T) {
	s := NewReportStore()

	first := &report.Report{FetchedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	second := &report.Report{FetchedAt: time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC)}

	s.Save(first)
	s.Save(second)

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.FetchedAt.Equal(second.FetchedAt) {
		t.Fatalf("latest = %v, want the second report", got.FetchedAt)
	}
}
