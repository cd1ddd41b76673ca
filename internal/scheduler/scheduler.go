package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"FXDashboard/internal/model"
	"FXDashboard/internal/store"

	"github.com/robfig/cron/v3"
)

// Collector produces a fresh dataset.
type Collector interface {
	Collect(ctx context.Context) (*model.Dataset, error)
}

// Scheduler refreshes the store from the collector, once at start and optionally on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Collector
	Store     *store.Store
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col Collector, st *store.Store) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Store:     st,
		Ctx:       ctx,
	}
}

// RegisterRefresh schedules periodic refreshes. An empty expression leaves the
// dataset as loaded at start.
func (s *Scheduler) RegisterRefresh(refreshCron string) error {
	if refreshCron == "" {
		log.Println("[INFO] periodic refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	log.Printf("[INFO] periodic refresh scheduled: %s", refreshCron)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow collects synchronously and stores the result. The store is left
// untouched on failure.
func (s *Scheduler) RunNow() error {
	started := time.Now()
	ds, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		return err
	}
	s.Store.Replace(ds)
	log.Printf("[INFO] dataset refreshed: %d instruments, %d range rows in %s",
		len(ds.Instruments), len(ds.Range.Rows), time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running refresh task")
	if err := s.RunNow(); err != nil {
		log.Printf("[ERROR] refresh: %v, keeping previous dataset", err)
	}
}
