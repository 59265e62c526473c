package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// CompanyRules holds the named CSS extraction rules for one company careers
// page. JobList and Title are mandatory; every other rule is optional — an
// absent rule silently omits the field instead of erroring.
type CompanyRules struct {
	JobList     string `json:"jobList"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Salary      string `json:"salary,omitempty"`
	PostedAt    string `json:"postedAt,omitempty"`
	Link        string `json:"link,omitempty"` // defaults to the first <a> in the card
}

// CompanyConfig is one entry of the company scraper configuration file.
type CompanyConfig struct {
	Name  string       `json:"name"`
	URL   string       `json:"url"`
	Rules CompanyRules `json:"rules"`
}

// LoadCompanyConfigs reads and validates the JSON company scraper
// configuration at path.
func LoadCompanyConfigs(path string) ([]CompanyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read company config: %w", err)
	}
	var configs []CompanyConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse company config %s: %w", path, err)
	}
	for i, c := range configs {
		if err := validateCompanyConfig(c); err != nil {
			return nil, fmt.Errorf("company config entry %d (%s): %w", i, c.Name, err)
		}
	}
	return configs, nil
}

func validateCompanyConfig(c CompanyConfig) error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Rules.JobList == "" {
		return fmt.Errorf("rules.jobList is required")
	}
	if c.Rules.Title == "" {
		return fmt.Errorf("rules.title is required")
	}
	return nil
}

// CompanyAdapter scrapes a single company careers page using its configured
// extraction rules. One adapter instance per configured company.
type CompanyAdapter struct {
	cfg CompanyConfig
}

// NewCompanyAdapter constructs a company adapter, rejecting configs that
// lack the mandatory rules.
func NewCompanyAdapter(cfg CompanyConfig) (*CompanyAdapter, error) {
	if err := validateCompanyConfig(cfg); err != nil {
		return nil, err
	}
	return &CompanyAdapter{cfg: cfg}, nil
}

func (a *CompanyAdapter) Name() string         { return "company:" + a.cfg.Name }
func (a *CompanyAdapter) Source() model.Source { return model.SourceCompany }

// Fetch visits the careers page and extracts one listing per job-list
// element. When no company rule is configured the config name is used, so
// the company field never falls back to Unknown for a named scraper.
func (a *CompanyAdapter) Fetch(ctx context.Context) ([]model.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.UserAgent(scraperUserAgent))
	c.SetRequestTimeout(fetchTimeout)

	rules := a.cfg.Rules
	now := time.Now().UTC()
	var listings []model.RawListing
	var scrapeErr error

	c.OnHTML(rules.JobList, func(e *colly.HTMLElement) {
		title := e.ChildText(rules.Title)
		if title == "" {
			return
		}

		linkSelector := rules.Link
		if linkSelector == "" {
			linkSelector = "a"
		}
		href := e.ChildAttr(linkSelector, "href")
		if href == "" {
			return
		}

		l := model.RawListing{
			Title:     title,
			Company:   OrUnknown(a.cfg.Name, model.UnknownCompany),
			Location:  model.UnknownLocation,
			Source:    model.SourceCompany,
			SourceURL: e.Request.AbsoluteURL(href),
			ScrapedAt: now,
		}
		if rules.Company != "" {
			l.Company = OrUnknown(e.ChildText(rules.Company), l.Company)
		}
		if rules.Location != "" {
			l.Location = OrUnknown(e.ChildText(rules.Location), model.UnknownLocation)
		}
		if rules.Description != "" {
			l.Description = e.ChildText(rules.Description)
		}
		if rules.Salary != "" {
			l.SalaryText = e.ChildText(rules.Salary)
			l.Salary = ParseSalaryRange(l.SalaryText)
		}
		if rules.PostedAt != "" {
			l.PostedAt = ParsePostedAt(e.ChildText(rules.PostedAt))
		}
		listings = append(listings, l)
	})

	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(a.cfg.URL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", a.cfg.URL, err)
	}
	if scrapeErr != nil {
		return nil, fmt.Errorf("scrape %s: %w", a.cfg.URL, scrapeErr)
	}

	return listings, nil
}
