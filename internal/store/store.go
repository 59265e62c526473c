// Package store implements the persistence sink for normalised listings.
// The pipeline's only write contract is an idempotent upsert keyed by
// source URL; the serving path reads listings back for ranking.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// Sink is the upsert contract the aggregation run depends on.
type Sink interface {
	// Upsert creates the listing on first call and updates all mutable
	// fields on subsequent calls with the same source URL. coords may be
	// nil: a listing that failed geocoding is persisted without
	// coordinates rather than dropped.
	Upsert(ctx context.Context, l model.RawListing, coords *model.Coordinates) error
}

// Postgres is the production Sink plus the serving-time read path.
type Postgres struct {
	pool *pgxpool.Pool
}

// New returns a Postgres store backed by the given pool.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the listings table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			source_url      TEXT NOT NULL UNIQUE,
			title           TEXT NOT NULL,
			company         TEXT NOT NULL,
			location        TEXT NOT NULL,
			latitude        DOUBLE PRECISION,
			longitude       DOUBLE PRECISION,
			description     TEXT,
			salary_text     TEXT,
			salary_min      DOUBLE PRECISION,
			salary_max      DOUBLE PRECISION,
			salary_currency TEXT,
			posted_at       TIMESTAMPTZ,
			source          TEXT NOT NULL,
			scraped_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure listings schema: %w", err)
	}
	return nil
}

// Upsert inserts or refreshes a listing by source_url.
func (s *Postgres) Upsert(ctx context.Context, l model.RawListing, coords *model.Coordinates) error {
	var lat, lng *float64
	if coords != nil {
		lat, lng = &coords.Latitude, &coords.Longitude
	}

	var salaryMin, salaryMax *float64
	var salaryCurrency *string
	if l.Salary != nil {
		salaryMin, salaryMax = &l.Salary.Min, &l.Salary.Max
		if l.Salary.Currency != "" {
			salaryCurrency = &l.Salary.Currency
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO listings
		   (source_url, title, company, location, latitude, longitude,
		    description, salary_text, salary_min, salary_max, salary_currency,
		    posted_at, source, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (source_url) DO UPDATE SET
		   title           = EXCLUDED.title,
		   company         = EXCLUDED.company,
		   location        = EXCLUDED.location,
		   latitude        = COALESCE(EXCLUDED.latitude, listings.latitude),
		   longitude       = COALESCE(EXCLUDED.longitude, listings.longitude),
		   description     = EXCLUDED.description,
		   salary_text     = EXCLUDED.salary_text,
		   salary_min      = EXCLUDED.salary_min,
		   salary_max      = EXCLUDED.salary_max,
		   salary_currency = EXCLUDED.salary_currency,
		   posted_at       = EXCLUDED.posted_at,
		   source          = EXCLUDED.source,
		   scraped_at      = EXCLUDED.scraped_at,
		   updated_at      = NOW()`,
		l.SourceURL, l.Title, l.Company, l.Location, lat, lng,
		l.Description, l.SalaryText, salaryMin, salaryMax, salaryCurrency,
		l.PostedAt, string(l.Source), l.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", l.SourceURL, err)
	}
	return nil
}

// ListScorable returns listings scraped within the window, projected for
// ranking. Coordinates stay nil for listings that were persisted without
// them (remote jobs, failed geocodes).
func (s *Postgres) ListScorable(ctx context.Context, since time.Time) ([]model.ScorableListing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, title, company, COALESCE(description, ''),
		        salary_min, salary_max, COALESCE(salary_currency, ''),
		        posted_at, latitude, longitude
		 FROM listings
		 WHERE scraped_at >= $1
		 ORDER BY scraped_at DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []model.ScorableListing
	for rows.Next() {
		var l model.ScorableListing
		var salaryMin, salaryMax, lat, lng *float64
		var currency string
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Company, &l.Description,
			&salaryMin, &salaryMax, &currency,
			&l.PostedAt, &lat, &lng,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if salaryMax != nil {
			r := model.SalaryRange{Max: *salaryMax, Currency: currency}
			if salaryMin != nil {
				r.Min = *salaryMin
			}
			l.Salary = &r
		}
		if lat != nil && lng != nil {
			l.Coords = &model.Coordinates{Latitude: *lat, Longitude: *lng}
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
