// Package aggregator drives one end-to-end aggregation run: concurrent
// adapter fan-out, exclusion filtering, fuzzy dedup, then sequential
// geocode-and-upsert. At most one run is in flight at a time; extra
// triggers are dropped, never queued.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/richrz/JobScout-sub000/internal/dedup"
	"github.com/richrz/JobScout-sub000/internal/model"
	"github.com/richrz/JobScout-sub000/internal/report"
	"github.com/richrz/JobScout-sub000/internal/source"
	"github.com/richrz/JobScout-sub000/internal/store"
)

// Resolver is the geocoding dependency of a run. Satisfied by *geo.Geocoder;
// swapped for a fake in tests.
type Resolver interface {
	Resolve(ctx context.Context, location string) (*model.Coordinates, error)
}

// Options tune a run; zero values fall back to defaults.
type Options struct {
	DedupeThreshold float64  // 0 means dedup.DefaultThreshold
	ExcludeTerms    []string // listings containing any term are discarded
}

// Aggregator holds the single-flight gate and the run dependencies. The
// running flag and start time live here, on an explicit instance, so tests
// can construct an aggregator with fakes.
type Aggregator struct {
	adapters []source.Adapter
	resolver Resolver
	sink     store.Sink
	reporter report.Reporter
	opts     Options

	mu        sync.Mutex
	running   bool
	startedAt time.Time
}

// New constructs an Aggregator.
func New(adapters []source.Adapter, resolver Resolver, sink store.Sink, reporter report.Reporter, opts Options) *Aggregator {
	if opts.DedupeThreshold <= 0 {
		opts.DedupeThreshold = dedup.DefaultThreshold
	}
	return &Aggregator{
		adapters: adapters,
		resolver: resolver,
		sink:     sink,
		reporter: reporter,
		opts:     opts,
	}
}

// Running reports whether a run is currently in flight.
func (a *Aggregator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// TryRun attempts to start an aggregation run for the given trigger
// ("cron", "manual", "startup"). When a run is already in flight the
// trigger is dropped with an informational log and TryRun returns false —
// a no-op, not an error. Run failures are forwarded to the reporter; the
// single-flight lock is always released.
func (a *Aggregator) TryRun(ctx context.Context, trigger string) bool {
	if !a.tryStart() {
		log.Printf("[aggregator] run already in progress — dropping %s trigger", trigger)
		return false
	}
	defer a.finish()

	run := report.RunContext{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
	log.Printf("[aggregator] run %s started (trigger=%s)", run.RunID, trigger)

	if err := a.run(ctx, run); err != nil {
		log.Printf("[aggregator] run %s finished with errors: %v", run.RunID, err)
		a.reporter.Report(ctx, err, run)
	} else {
		log.Printf("[aggregator] run %s complete", run.RunID)
	}
	return true
}

func (a *Aggregator) tryStart() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return false
	}
	a.running = true
	a.startedAt = time.Now()
	return true
}

func (a *Aggregator) finish() {
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
}

// run executes the pipeline body. Per-adapter and per-listing failures are
// contained; the returned error joins whatever could not be recovered so
// the reporter sees it.
func (a *Aggregator) run(ctx context.Context, run report.RunContext) error {
	fetched := a.fetchAll(ctx)

	var merged []model.RawListing
	var excluded int
	for _, l := range fetched {
		if source.ContainsExcludedTerm(l.Title, l.Company, l.Description, a.opts.ExcludeTerms) {
			excluded++
			continue
		}
		merged = append(merged, l)
	}

	unique := dedup.Dedupe(merged, a.opts.DedupeThreshold)
	duplicates := len(merged) - len(unique)

	var upserted int
	var upsertErrs []error
	for _, l := range unique {
		coords := a.geocode(ctx, l)
		if err := a.sink.Upsert(ctx, l, coords); err != nil {
			log.Printf("[aggregator] upsert %s failed: %v — continuing", l.SourceURL, err)
			upsertErrs = append(upsertErrs, err)
			continue
		}
		upserted++
	}

	log.Printf("[aggregator] run %s — fetched=%d excluded=%d duplicates=%d upserted=%d failed=%d",
		run.RunID, len(fetched), excluded, duplicates, upserted, len(upsertErrs))

	if len(upsertErrs) > 0 {
		return fmt.Errorf("run %s: %w", run.RunID, errors.Join(upsertErrs...))
	}
	return nil
}

// fetchAll gathers every adapter concurrently. A failing adapter
// contributes zero listings and never aborts the others; results merge in
// configured adapter order so the dedup pass is deterministic.
func (a *Aggregator) fetchAll(ctx context.Context) []model.RawListing {
	results := make([][]model.RawListing, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(i int, adapter source.Adapter) {
			defer wg.Done()
			listings, err := adapter.Fetch(ctx)
			if err != nil {
				log.Printf("[aggregator] adapter %s failed: %v — contributing no listings", adapter.Name(), err)
				return
			}
			log.Printf("[aggregator] adapter %s fetched %d listing(s)", adapter.Name(), len(listings))
			results[i] = listings
		}(i, adapter)
	}
	wg.Wait()

	var merged []model.RawListing
	for _, batch := range results {
		merged = append(merged, batch...)
	}
	return merged
}

// geocode resolves a listing's location, returning nil for remote or
// unknown locations and on transport failure. The listing is persisted
// either way.
func (a *Aggregator) geocode(ctx context.Context, l model.RawListing) *model.Coordinates {
	if l.Location == model.UnknownLocation || isRemote(l.Location) {
		return nil
	}
	coords, err := a.resolver.Resolve(ctx, l.Location)
	if err != nil {
		slog.Warn("geocode failed — persisting without coordinates",
			"sourceUrl", l.SourceURL, "location", l.Location, "err", err)
		return nil
	}
	return coords
}

func isRemote(location string) bool {
	return strings.Contains(strings.ToLower(location), "remote")
}
