package source

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// combinedSeparator is the fixed convention used by feeds that pack
// "Title - Company - Location" into a single string.
const combinedSeparator = " - "

// SplitCombinedTitle breaks a combined "Title - Company - Location" string
// into discrete fields. Missing company/location default to the Unknown
// sentinels rather than empty strings. Extra separators beyond the third
// field are folded back into the location.
func SplitCombinedTitle(combined string) (title, company, location string) {
	parts := strings.Split(combined, combinedSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	title = parts[0]
	company = model.UnknownCompany
	location = model.UnknownLocation

	if len(parts) > 1 && parts[1] != "" {
		company = parts[1]
	}
	if len(parts) > 2 {
		rest := strings.Join(parts[2:], combinedSeparator)
		if rest != "" {
			location = rest
		}
	}
	return title, company, location
}

// OrUnknown returns the trimmed value, or the given sentinel when the value
// is empty after trimming.
func OrUnknown(value, sentinel string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return sentinel
}

// ContainsExcludedTerm returns true if any exclusion term appears
// (case-insensitive) anywhere in the combined title + company + description
// text. Matching listings are discarded before persistence.
func ContainsExcludedTerm(title, company, description string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	combined := strings.ToLower(title + " " + company + " " + description)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// salaryPattern matches amounts like "40000", "40,000", "40k", "€40.000".
var salaryPattern = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{3})+|\d+)\s*([kK])?`)

// currencyPattern matches a leading currency symbol or ISO code.
var currencyPattern = regexp.MustCompile(`(€|\$|£|EUR|USD|GBP)`)

// ParseSalaryRange extracts a numeric salary band from free text such as
// "€45,000 - €60,000 per year" or "up to 80k". Returns nil when no amount
// can be recognised; the raw text is still kept on the listing.
func ParseSalaryRange(text string) *model.SalaryRange {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var amounts []float64
	for _, m := range salaryPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.NewReplacer(",", "", ".", "").Replace(m[1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		// Ignore stray small numbers ("5 days/week", "2 rounds").
		if v < 1000 {
			continue
		}
		amounts = append(amounts, v)
	}
	if len(amounts) == 0 {
		return nil
	}

	r := &model.SalaryRange{Min: amounts[0], Max: amounts[0]}
	for _, v := range amounts[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	if cur := currencyPattern.FindString(text); cur != "" {
		r.Currency = normalizeCurrency(cur)
	}
	return r
}

func normalizeCurrency(symbol string) string {
	switch symbol {
	case "€":
		return "EUR"
	case "$":
		return "USD"
	case "£":
		return "GBP"
	}
	return symbol
}

// postedAtLayouts are tried in order when a source exposes the posting date
// as text rather than structured data.
var postedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"02/01/2006",
}

// ParsePostedAt parses a posting date in any of the supported layouts.
// Returns nil when nothing matches; a listing without a posting date simply
// earns no recency score.
func ParsePostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
