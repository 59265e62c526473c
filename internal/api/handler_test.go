package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richrz/JobScout-sub000/internal/api"
	"github.com/richrz/JobScout-sub000/internal/model"
)

// ── Fakes ──────────────────────────────────────────────────────────────────

type fakeTrigger struct {
	running  bool
	triggers atomic.Int32
}

func (t *fakeTrigger) TryRun(_ context.Context, _ string) bool {
	t.triggers.Add(1)
	return !t.running
}

func (t *fakeTrigger) Running() bool { return t.running }

type fakeLister struct {
	listings []model.ScorableListing
}

func (l *fakeLister) ListScorable(_ context.Context, _ time.Time) ([]model.ScorableListing, error) {
	return l.listings, nil
}

func newServer(trigger *fakeTrigger, lister *fakeLister, cities []model.CityConfig) *httptest.Server {
	mux := http.NewServeMux()
	api.NewHandler(trigger, lister, cities).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func ptr[T any](v T) *T { return &v }

// ── /aggregate ─────────────────────────────────────────────────────────────

func TestAggregate_StartsRun(t *testing.T) {
	trigger := &fakeTrigger{}
	srv := newServer(trigger, &fakeLister{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/aggregate", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
}

func TestAggregate_AlreadyRunningIsNotAnError(t *testing.T) {
	trigger := &fakeTrigger{running: true}
	srv := newServer(trigger, &fakeLister{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/aggregate", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 no-op", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "already_running" {
		t.Errorf("status = %q, want already_running", body["status"])
	}
}

func TestAggregate_MethodNotAllowed(t *testing.T) {
	srv := newServer(&fakeTrigger{}, &fakeLister{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/aggregate")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

// ── /listings ──────────────────────────────────────────────────────────────

func decodeListings(t *testing.T, resp *http.Response) (count int, ids []string) {
	t.Helper()
	var body struct {
		Count    int `json:"count"`
		Listings []struct {
			ID string `json:"id"`
		} `json:"listings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	for _, l := range body.Listings {
		ids = append(ids, l.ID)
	}
	return body.Count, ids
}

func TestListings_RankedByKeyword(t *testing.T) {
	lister := &fakeLister{listings: []model.ScorableListing{
		{ID: "other", Title: "Accountant"},
		{ID: "react", Title: "React Developer"},
	}}
	srv := newServer(&fakeTrigger{}, lister, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/listings?keywords=React&wKeywords=1&wRecency=0&wSalary=0&wDistance=0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	count, ids := decodeListings(t, resp)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if len(ids) != 2 || ids[0] != "react" {
		t.Errorf("order = %v, want react first", ids)
	}
}

func TestListings_CityFilter(t *testing.T) {
	nyc := model.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	lister := &fakeLister{listings: []model.ScorableListing{
		{ID: "la", Coords: &model.Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
		{ID: "manhattan", Coords: &model.Coordinates{Latitude: 40.73, Longitude: -73.99}},
		{ID: "remote"},
	}}
	cities := []model.CityConfig{{Name: "New York", Center: nyc, RadiusKm: 50}}
	srv := newServer(&fakeTrigger{}, lister, cities)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/listings?city=new%20york&includeRemote=false")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	_, ids := decodeListings(t, resp)
	if len(ids) != 1 || ids[0] != "manhattan" {
		t.Errorf("ids = %v, want only manhattan inside the radius", ids)
	}
}

func TestListings_UnknownCity(t *testing.T) {
	srv := newServer(&fakeTrigger{}, &fakeLister{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/listings?city=gotham")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown city", resp.StatusCode)
	}
}

func TestListings_InvalidRadius(t *testing.T) {
	srv := newServer(&fakeTrigger{}, &fakeLister{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/listings?lat=40.7&lng=-74.0&radiusKm=-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-positive radius", resp.StatusCode)
	}
}

func TestListings_RemoteIncludedByDefault(t *testing.T) {
	lister := &fakeLister{listings: []model.ScorableListing{
		{ID: "manhattan", Coords: &model.Coordinates{Latitude: 40.73, Longitude: -73.99}},
		{ID: "remote", PostedAt: ptr(time.Now())},
	}}
	srv := newServer(&fakeTrigger{}, lister, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/listings?lat=40.7128&lng=-74.0060&radiusKm=50&wRecency=0&wKeywords=0&wSalary=0&wDistance=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	_, ids := decodeListings(t, resp)
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want both listings (remote included by default)", ids)
	}
}
