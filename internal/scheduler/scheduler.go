package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/mgrady78/weather-fetch/internal/report"
	"github.com/mgrady78/weather-fetch/internal/store"
)

// Scheduler periodically runs a fetch cycle and publishes the result to
// the report store for the HTTP endpoint to serve.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *report.Service
	reports   *store.ReportStore
	params    report.Params
	interval  time.Duration
}

// New creates a new Scheduler.
func New(service *report.Service, reports *store.ReportStore, params report.Params, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		reports:   reports,
		params:    params,
		interval:  interval,
	}
}

// RunOnce executes a single refresh immediately. Serve mode calls this at
// startup so the endpoint has data before the first scheduled tick.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.refresh(ctx)
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	runID := uuid.NewString()
	log.Printf("scheduler: refresh %s starting", runID)

	rep := s.service.Run(ctx, s.params)
	if err := rep.Err(); err != nil {
		log.Printf("scheduler: refresh %s: %v", runID, err)
	}

	// Publish partial results too; a stale forecast beats an empty reply
	// only when at least one section came back.
	if rep.Forecast != nil || rep.Observation != nil {
		s.reports.Save(rep)
		log.Printf("scheduler: refresh %s published report fetched at %s", runID, rep.FetchedAt.Format(time.RFC3339))
	}
}
