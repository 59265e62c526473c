// jobscout — job listing aggregation service
//
// Pulls listings from configured sources (RSS feeds, job boards, company
// career pages), dedupes them, geocodes locations, and persists the result
// to PostgreSQL. Exposes a REST API used by clients to implement:
//   - POST /aggregate — manual pipeline trigger (single-flight)
//   - GET  /listings  — filtered, ranked listings for the caller's criteria
//
// Aggregation also runs on a cron schedule and once at startup.
// Publishes EVENT_RUN_FAILED to Redis when a run fails.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/richrz/JobScout-sub000/internal/aggregator"
	"github.com/richrz/JobScout-sub000/internal/api"
	"github.com/richrz/JobScout-sub000/internal/config"
	"github.com/richrz/JobScout-sub000/internal/db"
	"github.com/richrz/JobScout-sub000/internal/geo"
	"github.com/richrz/JobScout-sub000/internal/model"
	"github.com/richrz/JobScout-sub000/internal/report"
	"github.com/richrz/JobScout-sub000/internal/scheduler"
	"github.com/richrz/JobScout-sub000/internal/source"
	"github.com/richrz/JobScout-sub000/internal/store"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobscout] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[jobscout] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[jobscout] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[jobscout] PostgreSQL connected ✓")

	listings := store.New(pool)
	if err := listings.EnsureSchema(ctx); err != nil {
		log.Fatalf("[jobscout] Schema: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[jobscout] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[jobscout] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[jobscout] Redis connected ✓")

	// ── Geocoding ────────────────────────────────────────────────────────────
	provider, err := geo.NewHTTPProvider(cfg.GeocodeAPIKey, cfg.GeocodeBaseURL)
	if err != nil {
		log.Fatalf("[jobscout] Geocoder: %v", err)
	}
	geocoder := geo.NewGeocoder(geo.NewRedisCache(rdb), provider)

	// ── Source adapters ──────────────────────────────────────────────────────
	adapters, err := buildAdapters(cfg)
	if err != nil {
		log.Fatalf("[jobscout] Sources: %v", err)
	}
	if len(adapters) == 0 {
		log.Fatal("[jobscout] No sources configured — set FEED_URL, BOARD_URL or COMPANY_CONFIG_PATH")
	}
	log.Printf("[jobscout] %d source adapter(s) configured", len(adapters))

	// ── Aggregation pipeline ─────────────────────────────────────────────────
	agg := aggregator.New(adapters, geocoder, listings, report.NewRedisReporter(rdb), aggregator.Options{
		DedupeThreshold: cfg.DedupeThreshold,
		ExcludeTerms:    cfg.ExcludeTerms,
	})

	sched := scheduler.New(agg, cfg.CronSpec)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobscout] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	var cities []model.CityConfig
	if cfg.CitiesPath != "" {
		cities, err = api.LoadCities(cfg.CitiesPath)
		if err != nil {
			log.Fatalf("[jobscout] Cities: %v", err)
		}
		log.Printf("[jobscout] %d city preset(s) loaded", len(cities))
	}

	mux := http.NewServeMux()
	api.NewHandler(agg, listings, cities).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[jobscout] Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobscout] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[jobscout] Shutting down…")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobscout] Shutdown error: %v", err)
	}
	log.Println("[jobscout] Stopped.")
}

// buildAdapters assembles source adapters from configuration. Every source
// is optional individually; main enforces that at least one exists.
func buildAdapters(cfg *config.Config) ([]source.Adapter, error) {
	var adapters []source.Adapter

	if cfg.FeedURL != "" {
		adapters = append(adapters, source.NewFeedAdapter("feed", cfg.FeedURL))
	}
	if cfg.BoardURL != "" {
		adapters = append(adapters, source.NewBoardAdapter("board", cfg.BoardURL))
	}
	if cfg.CompanyConfigPath != "" {
		configs, err := source.LoadCompanyConfigs(cfg.CompanyConfigPath)
		if err != nil {
			return nil, fmt.Errorf("company configs: %w", err)
		}
		for _, cc := range configs {
			adapter, err := source.NewCompanyAdapter(cc)
			if err != nil {
				return nil, fmt.Errorf("company adapter %q: %w", cc.Name, err)
			}
			adapters = append(adapters, adapter)
		}
	}

	return adapters, nil
}
