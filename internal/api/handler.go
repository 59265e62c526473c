// Package api implements the HTTP surface of the jobscout service.
//
// Routes:
//
//	GET  /health    → liveness probe
//	POST /aggregate → manual aggregation trigger (single-flight)
//	GET  /listings  → filtered, ranked listings for the caller's criteria
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/richrz/JobScout-sub000/internal/geo"
	"github.com/richrz/JobScout-sub000/internal/model"
	"github.com/richrz/JobScout-sub000/internal/score"
)

const version = "1.0.0"

const defaultWindowDays = 30

// Trigger is the aggregator surface the handler needs.
type Trigger interface {
	TryRun(ctx context.Context, trigger string) bool
	Running() bool
}

// Lister is the store surface the handler needs.
type Lister interface {
	ListScorable(ctx context.Context, since time.Time) ([]model.ScorableListing, error)
}

// Handler holds shared dependencies.
type Handler struct {
	agg    Trigger
	lister Lister
	cities map[string]model.CityConfig // keyed by lower-cased name
}

// NewHandler returns a configured Handler. cities may be nil when no city
// presets are configured; callers then pass lat/lng directly.
func NewHandler(agg Trigger, lister Lister, cities []model.CityConfig) *Handler {
	index := make(map[string]model.CityConfig, len(cities))
	for _, c := range cities {
		index[strings.ToLower(c.Name)] = c
	}
	return &Handler{agg: agg, lister: lister, cities: index}
}

// RegisterRoutes mounts all routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/aggregate", h.handleAggregate)
	mux.HandleFunc("/listings", h.handleListings)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "jobscout",
		"version": version,
	})
}

// handleAggregate handles POST /aggregate. A trigger while a run is in
// flight is a no-op, reported as such rather than as an error.
func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.agg.Running() {
		// Not an error: the single-flight gate drops extra triggers.
		jsonOK(w, map[string]string{"status": "already_running"})
		return
	}

	// Detach from the request context: the run outlives the HTTP exchange.
	go h.agg.TryRun(context.Background(), "manual")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// listingsResponse wraps the ranked listings with the echo of the applied
// criteria, so clients can render the active filters.
type listingsResponse struct {
	Criteria model.ScoringCriteria   `json:"criteria"`
	Weights  model.ScoringWeights    `json:"weights"`
	Count    int                     `json:"count"`
	Listings []model.ScorableListing `json:"listings"`
}

// handleListings handles GET /listings.
//
// Query parameters: keywords (comma-separated), targetSalary, lat+lng or
// city (configured preset), radiusKm, includeRemote, wKeywords, wRecency,
// wSalary, wDistance, sinceDays.
func (h *Handler) handleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()

	criteria := model.ScoringCriteria{
		Keywords:     splitCSV(q.Get("keywords")),
		TargetSalary: parseFloat(q.Get("targetSalary"), 0),
	}
	weights := model.ScoringWeights{
		Keywords: parseFloat(q.Get("wKeywords"), 1),
		Recency:  parseFloat(q.Get("wRecency"), 1),
		Salary:   parseFloat(q.Get("wSalary"), 1),
		Distance: parseFloat(q.Get("wDistance"), 1),
	}

	sinceDays := int(parseFloat(q.Get("sinceDays"), defaultWindowDays))
	since := time.Now().AddDate(0, 0, -sinceDays)

	listings, err := h.lister.ListScorable(r.Context(), since)
	if err != nil {
		log.Printf("[api] listings query error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	ref, radiusKm, hasRef, err := h.referencePoint(q)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if hasRef {
		includeRemote := q.Get("includeRemote") != "false" // default true
		listings, err = geo.FilterByDistance(listings, ref, radiusKm, includeRemote)
		if err != nil {
			if errors.Is(err, geo.ErrInvalidRadius) {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("[api] distance filter error: %v", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	ranked := score.Rank(listings, criteria, weights)

	jsonOK(w, listingsResponse{
		Criteria: criteria,
		Weights:  weights,
		Count:    len(ranked),
		Listings: ranked,
	})
}

// referencePoint resolves the caller's reference point from either a city
// preset or explicit lat/lng. hasRef is false when neither is supplied; the
// distance filter is then skipped entirely.
func (h *Handler) referencePoint(q map[string][]string) (ref model.Coordinates, radiusKm float64, hasRef bool, err error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	radiusKm = parseFloat(get("radiusKm"), 0)

	if name := get("city"); name != "" {
		city, ok := h.cities[strings.ToLower(name)]
		if !ok {
			return ref, 0, false, errors.New("unknown city " + strconv.Quote(name))
		}
		if radiusKm == 0 {
			radiusKm = city.RadiusKm
		}
		return city.Center, radiusKm, true, nil
	}

	latStr, lngStr := get("lat"), get("lng")
	if latStr == "" && lngStr == "" {
		return ref, 0, false, nil
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		return ref, 0, false, errors.New("lat and lng must both be valid numbers")
	}
	if radiusKm == 0 {
		radiusKm = 50
	}
	return model.Coordinates{Latitude: lat, Longitude: lng}, radiusKm, true, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
