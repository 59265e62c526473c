package source

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// Board selectors. The board adapter targets one known job-board markup;
// per-company pages with arbitrary markup go through CompanyAdapter instead.
const (
	boardListSelector        = "div.job-card"
	boardTitleSelector       = "h2.job-title"
	boardCompanySelector     = "span.company"
	boardLocationSelector    = "span.location"
	boardDescriptionSelector = "div.job-description"
	boardSalarySelector      = "span.salary"
	boardPostedSelector      = "time.posted"
	boardLinkSelector        = "a.job-link"
)

// BoardAdapter scrapes a fixed-markup HTML job board.
type BoardAdapter struct {
	name string
	url  string
}

// NewBoardAdapter constructs a board adapter for the given listing page URL.
func NewBoardAdapter(name, boardURL string) *BoardAdapter {
	return &BoardAdapter{name: name, url: boardURL}
}

func (a *BoardAdapter) Name() string         { return a.name }
func (a *BoardAdapter) Source() model.Source { return model.SourceBoard }

// Fetch visits the board page and extracts one listing per job card.
// Cards without a title or link are skipped rather than erroring the batch.
func (a *BoardAdapter) Fetch(ctx context.Context) ([]model.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.UserAgent(scraperUserAgent))
	c.SetRequestTimeout(fetchTimeout)

	now := time.Now().UTC()
	var listings []model.RawListing
	var scrapeErr error

	c.OnHTML(boardListSelector, func(e *colly.HTMLElement) {
		title := e.ChildText(boardTitleSelector)
		href := e.ChildAttr(boardLinkSelector, "href")
		if title == "" || href == "" {
			return
		}

		l := model.RawListing{
			Title:       title,
			Company:     OrUnknown(e.ChildText(boardCompanySelector), model.UnknownCompany),
			Location:    OrUnknown(e.ChildText(boardLocationSelector), model.UnknownLocation),
			Description: e.ChildText(boardDescriptionSelector),
			SalaryText:  e.ChildText(boardSalarySelector),
			PostedAt:    ParsePostedAt(e.ChildText(boardPostedSelector)),
			Source:      model.SourceBoard,
			SourceURL:   e.Request.AbsoluteURL(href),
			ScrapedAt:   now,
		}
		if l.SalaryText != "" {
			l.Salary = ParseSalaryRange(l.SalaryText)
		}
		listings = append(listings, l)
	})

	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(a.url); err != nil {
		return nil, fmt.Errorf("visit %s: %w", a.url, err)
	}
	if scrapeErr != nil {
		return nil, fmt.Errorf("scrape %s: %w", a.url, scrapeErr)
	}

	return listings, nil
}

const scraperUserAgent = "jobscout/1.0"
