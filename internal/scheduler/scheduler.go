// Package scheduler runs the periodic maintenance jobs, currently the
// nightly rebuild of the materialized member share register.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saccokit/sacco-backoffice/internal/service"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	cron   *cron.Cron
	shares *service.ShareService
}

// New creates a Scheduler with the share summary refresh registered on
// the given cron spec.
func New(spec string, shares *service.ShareService) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		shares: shares,
	}

	if _, err := s.cron.AddFunc(spec, s.refreshShareSummary); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running the scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) refreshShareSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.shares.RefreshMemberShareSummary(ctx); err != nil {
		log.Printf("ERROR: share summary refresh failed: %v", err)
		return
	}
	log.Printf("share summary refreshed in %s", time.Since(start))
}
