package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// ErrNoCredential is returned when no geocoding API key is configured.
// Raised at construction time, before any provider call is attempted.
var ErrNoCredential = errors.New("geocoding API key is not configured")

const providerTimeout = 15 * time.Second

// Provider is the external geocoding service contract. A query with no
// match returns an empty slice and no error.
type Provider interface {
	Geocode(ctx context.Context, query string) ([]model.Coordinates, error)
}

// HTTPProvider calls a keyed forward-geocoding HTTP API.
type HTTPProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHTTPProvider constructs a provider, failing fast with ErrNoCredential
// when the key is empty.
func NewHTTPProvider(apiKey, baseURL string) (*HTTPProvider, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	return &HTTPProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: providerTimeout},
	}, nil
}

// geocodeResponse mirrors the provider's top-level JSON response.
type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Geometry struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geometry"`
}

// Geocode resolves a free-text query. Zero results is not an error.
func (p *HTTPProvider) Geocode(ctx context.Context, query string) ([]model.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", p.apiKey)
	params.Set("limit", "1")
	params.Set("no_annotations", "1")

	reqURL := p.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding provider returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp geocodeResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	coords := make([]model.Coordinates, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		coords = append(coords, model.Coordinates{
			Latitude:  r.Geometry.Lat,
			Longitude: r.Geometry.Lng,
		})
	}
	return coords, nil
}
