// Package score computes the weighted composite score used to rank listings
// against a user's criteria. Four factors — keyword relevance, recency,
// salary fit, and distance — are each normalised to roughly [0,1] before
// weighting. The composite is an unnormalised weighted sum: relative, not
// absolute, magnitude is what matters.
package score

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/richrz/JobScout-sub000/internal/model"
)

const (
	recencyWindowDays = 30
	distanceCutoffKm  = 100
)

// Score computes the composite score for one listing. A factor whose
// criterion is absent contributes 0 regardless of its weight.
func Score(l model.ScorableListing, criteria model.ScoringCriteria, weights model.ScoringWeights) float64 {
	var total float64

	if len(criteria.Keywords) > 0 {
		total += keywordFactor(l, criteria.Keywords) * weights.Keywords
	}
	if l.PostedAt != nil {
		total += recencyFactor(*l.PostedAt) * weights.Recency
	}
	// Salary contributes nothing when either side of the comparison is
	// missing — deliberately not a neutral midpoint.
	if l.Salary != nil && l.Salary.Max > 0 && criteria.TargetSalary > 0 {
		total += math.Min(1, l.Salary.Max/criteria.TargetSalary) * weights.Salary
	}
	if weights.Distance > 0 && l.DistanceKm != nil {
		total += distanceFactor(*l.DistanceKm) * weights.Distance
	}

	return total
}

// Rank returns the listings sorted descending by composite score, with each
// listing's Score field populated. The sort is stable: ties keep input
// order. The input slice is not modified.
func Rank(listings []model.ScorableListing, criteria model.ScoringCriteria, weights model.ScoringWeights) []model.ScorableListing {
	ranked := make([]model.ScorableListing, len(listings))
	copy(ranked, listings)
	for i := range ranked {
		ranked[i].Score = Score(ranked[i], criteria, weights)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// keywordFactor scores each keyword 1.0 for a title hit, 0.5 for a
// description-only hit, 0 otherwise, averaged over the keyword count.
// Matching is case-insensitive substring.
func keywordFactor(l model.ScorableListing, keywords []string) float64 {
	title := strings.ToLower(l.Title)
	description := strings.ToLower(l.Description)

	var sum float64
	for _, kw := range keywords {
		k := strings.ToLower(kw)
		switch {
		case strings.Contains(title, k):
			sum += 1.0
		case strings.Contains(description, k):
			sum += 0.5
		}
	}
	return sum / float64(len(keywords))
}

// recencyFactor decays linearly from 1.0 (posted now) to 0 at 30 days.
func recencyFactor(postedAt time.Time) float64 {
	days := time.Since(postedAt).Hours() / 24
	return math.Max(0, 1-days/recencyWindowDays)
}

// distanceFactor decays linearly from 1.0 at 0 km to 0 at the 100 km cutoff.
func distanceFactor(distanceKm float64) float64 {
	return 1 - math.Min(distanceKm, distanceCutoffKm)/distanceCutoffKm
}
