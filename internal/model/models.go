// Package model defines shared data structures for the jobscout pipeline.
package model

import "time"

// Source identifies the origin of a listing. The set is closed: each value
// maps to exactly one adapter implementation in internal/source.
type Source string

const (
	SourceFeed    Source = "FEED"
	SourceBoard   Source = "BOARD"
	SourceCompany Source = "COMPANY"
)

// Sentinel values used when a source omits a field after normalisation.
// Downstream components (dedup, scoring) never see empty company/location
// strings.
const (
	UnknownCompany  = "Unknown Company"
	UnknownLocation = "Unknown Location"
)

// RawListing is a job posting normalised into the common shape produced by
// every source adapter. Immutable once an adapter hands it off.
type RawListing struct {
	Title       string
	Company     string
	Location    string // free text, resolved later by the geocoder
	Description string
	SalaryText  string
	Salary      *SalaryRange
	PostedAt    *time.Time
	Source      Source
	SourceURL   string // natural unique key for upserts
	ScrapedAt   time.Time
}

// Coordinates is a WGS84 coordinate pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SalaryRange is a parsed yearly salary band.
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// ScorableListing is a persisted listing projected for ranking. Score and
// DistanceKm are recomputed per request and never written back to the store.
type ScorableListing struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Description string       `json:"description,omitempty"`
	Salary      *SalaryRange `json:"salary,omitempty"`
	PostedAt    *time.Time   `json:"postedAt,omitempty"`
	Coords      *Coordinates `json:"coords,omitempty"`
	DistanceKm  *float64     `json:"distanceKm,omitempty"`
	Score       float64      `json:"score"`
}

// ScoringWeights are the caller-supplied factor weights. They are not
// required to sum to 1 — the composite score is an unnormalised weighted
// sum, so only relative magnitude matters.
type ScoringWeights struct {
	Keywords float64 `json:"keywords"`
	Recency  float64 `json:"recency"`
	Salary   float64 `json:"salary"`
	Distance float64 `json:"distance"`
}

// ScoringCriteria carries the optional inputs a factor needs. An absent
// criterion zeroes that factor's contribution regardless of its weight.
type ScoringCriteria struct {
	Keywords     []string `json:"keywords,omitempty"`
	TargetSalary float64  `json:"targetSalary,omitempty"`
}

// CityConfig names a reference point and search radius for the distance
// filter. Used only at serving time; never persisted by the pipeline.
type CityConfig struct {
	Name     string      `json:"name"`
	Center   Coordinates `json:"center"`
	RadiusKm float64     `json:"radiusKm"`
}
