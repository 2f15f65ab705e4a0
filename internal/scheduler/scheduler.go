package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/location-weather/internal/lookup"
)

// Runner is the part of the orchestrator the scheduler needs.
type Runner interface {
	Run(ctx context.Context) (lookup.Snapshot, error)
}

// Scheduler periodically refreshes the location and weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval of zero disables it.
func New(interval, timeout time.Duration, runner Runner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: refreshing every %s", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refresh() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	snap, err := s.runner.Run(ctx)
	if errors.Is(err, lookup.ErrInFlight) {
		log.Println("scheduler: lookup already in progress; skipping")
		return
	}
	if err != nil {
		log.Printf("scheduler: refresh failed: %v", err)
		return
	}
	log.Printf("scheduler: refresh %s finished with status %s", snap.RunID, snap.Status)
}
