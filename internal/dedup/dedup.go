// Package dedup flags near-duplicate listings using fuzzy title matching.
//
// The threshold is a dissimilarity score in [0,1]: 0 keeps only exact title
// matches as duplicates, 1 matches everything. Listings are processed in
// input order and the first occurrence of a cluster is always kept, so the
// input order decides which listing is canonical.
package dedup

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// DefaultThreshold is the dissimilarity cutoff used by the aggregation run.
const DefaultThreshold = 0.3

// keptEntry indexes one retained listing. Company is carried as a secondary
// field for diagnostics; matching is title-driven.
type keptEntry struct {
	title   string
	company string
}

// Dedupe returns the unique subsequence of listings: every listing whose
// best fuzzy match against an earlier kept listing scores at or below the
// threshold is dropped. A single left-to-right pass; a later kept listing
// never revisits an earlier decision. Pure: the input is not modified.
func Dedupe(listings []model.RawListing, threshold float64) []model.RawListing {
	unique, _ := partition(listings, threshold)
	return unique
}

// FindDuplicates returns the flagged subsequence: the listings Dedupe would
// drop, in input order.
func FindDuplicates(listings []model.RawListing, threshold float64) []model.RawListing {
	_, dups := partition(listings, threshold)
	return dups
}

func partition(listings []model.RawListing, threshold float64) (unique, dups []model.RawListing) {
	threshold = clamp01(threshold)
	unique = make([]model.RawListing, 0, len(listings))
	dups = make([]model.RawListing, 0)

	kept := make([]keptEntry, 0, len(listings))
	for _, l := range listings {
		key := normalizeTitle(l.Title)
		if best, ok := bestMatch(kept, key); ok && best <= threshold {
			dups = append(dups, l)
			continue
		}
		kept = append(kept, keptEntry{title: key, company: l.Company})
		unique = append(unique, l)
	}
	return unique, dups
}

// bestMatch returns the lowest dissimilarity between query and any kept
// title. ok is false when nothing has been kept yet.
func bestMatch(kept []keptEntry, query string) (score float64, ok bool) {
	best := 2.0
	for _, e := range kept {
		if d := dissimilarity(e.title, query); d < best {
			best = d
		}
	}
	if best > 1 {
		return 0, false
	}
	return best, true
}

// dissimilarity is the Levenshtein distance between two normalised titles
// divided by the longer length, yielding 0 for identical strings and 1 for
// completely different ones.
func dissimilarity(a, b string) float64 {
	if a == b {
		return 0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	score := float64(d) / float64(longest)
	if score > 1 {
		score = 1
	}
	return score
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
