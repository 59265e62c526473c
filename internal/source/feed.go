package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// FeedAdapter reads job postings from an RSS/Atom syndication feed. Feed
// items commonly pack "Title - Company - Location" into the item title, so
// the combined-title convention is applied during normalisation.
type FeedAdapter struct {
	name   string
	url    string
	parser *gofeed.Parser
}

// NewFeedAdapter constructs a feed adapter for the given feed URL.
func NewFeedAdapter(name, feedURL string) *FeedAdapter {
	return &FeedAdapter{
		name:   name,
		url:    feedURL,
		parser: gofeed.NewParser(),
	}
}

func (a *FeedAdapter) Name() string         { return a.name }
func (a *FeedAdapter) Source() model.Source { return model.SourceFeed }

// Fetch downloads and parses the feed, normalising every item that carries
// a link. Items without a link have no stable natural key and are skipped.
func (a *FeedAdapter) Fetch(ctx context.Context) ([]model.RawListing, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	feed, err := a.parser.ParseURLWithContext(a.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.url, err)
	}

	now := time.Now().UTC()
	listings := make([]model.RawListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		title, company, location := SplitCombinedTitle(item.Title)
		if title == "" {
			continue
		}

		l := model.RawListing{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: item.Description,
			Source:      model.SourceFeed,
			SourceURL:   item.Link,
			ScrapedAt:   now,
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			l.PostedAt = &t
		}
		if r := ParseSalaryRange(item.Description); r != nil {
			l.Salary = r
		}
		listings = append(listings, l)
	}

	return listings, nil
}
