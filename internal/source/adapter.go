// Package source implements the listing source adapters: a syndication feed
// parser, an HTML job-board scraper, and a configuration-driven company-page
// scraper. Each adapter fetches raw postings and normalises them into
// model.RawListing; adapters share no state and fail independently.
package source

import (
	"context"
	"time"

	"github.com/richrz/JobScout-sub000/internal/model"
)

const fetchTimeout = 15 * time.Second

// Adapter is the common fetch contract. Implementations must return all
// listings they could normalise and an error describing why the fetch (or
// part of it) failed; the aggregator treats each adapter as independent-fail.
type Adapter interface {
	// Name identifies the adapter instance in logs.
	Name() string

	// Source is the origin tag stamped on every listing the adapter emits.
	Source() model.Source

	// Fetch retrieves and normalises the current set of postings.
	Fetch(ctx context.Context) ([]model.RawListing, error)
}
