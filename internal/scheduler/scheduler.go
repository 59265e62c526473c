// Package scheduler wires up the cron job that periodically triggers an
// aggregation run.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/richrz/JobScout-sub000/internal/aggregator"
)

// Scheduler wraps robfig/cron around the aggregator's single-flight gate.
// A tick that lands while a run is in flight is dropped by the gate itself,
// so overlapping schedules are harmless.
type Scheduler struct {
	cron *cron.Cron
	agg  *aggregator.Aggregator
	spec string // cron expression, e.g. "0 * * * *"
}

// New creates a Scheduler firing on the given cron expression.
func New(agg *aggregator.Aggregator, spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		agg:  agg,
		spec: spec,
	}
}

// Start registers the job and starts the scheduler. Also runs one
// aggregation immediately so the feed is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.agg.TryRun(ctx, "cron")
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.agg.TryRun(ctx, "startup")

	return nil
}

// Stop stops registering new timer callbacks. An in-flight run is left to
// finish; upserts are idempotent so no rollback is needed.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}
