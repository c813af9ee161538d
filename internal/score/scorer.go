package score

import (
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/leadrank/internal/model"
)

// DefaultKeywords are the high-intent terms matched against name and types
var DefaultKeywords = []string{
	"hvac",
	"air conditioning",
	"furnace",
	"heating",
	"ac repair",
	"contractor",
	"mechanical",
}

// Point budget per component
const (
	maxRatingScore       = 35.0
	maxReviewVolumeScore = 30.0
	maxKeywordScore      = 10.0

	ratingWeight       = 7.0  // per star
	reviewVolumeWeight = 15.0 // per decade of reviews
	keywordWeight      = 1.5  // per matched keyword

	operationalScore       = 10.0
	closedTemporarilyScore = 3.0
)

// Bucket thresholds, evaluated high to low
const (
	highThreshold   = 60.0
	mediumThreshold = 40.0
)

// Scorer calculates lead scores and priority buckets
type Scorer struct {
	keywords []string
}

// NewScorer creates a scorer using DefaultKeywords
func NewScorer() *Scorer {
	return &Scorer{keywords: DefaultKeywords}
}

// Score computes the score breakdown for one input row. The row map is
// referenced, not copied or modified.
func (s *Scorer) Score(fields map[string]string) model.ScoredListing {
	listing := model.ListingFromFields(fields)

	// 1. Rating (0-35 points)
	ratingScore := calculateRating(listing.Rating)

	// 2. Review volume (0-30 points)
	reviewScore := calculateReviewVolume(listing.UserRatingsTotal)

	// 3. Keyword intent (0-10 points)
	keywordScore := s.calculateKeywords(listing.Name, fields[model.ColumnTypes])

	// 4. Operating status (0, 3 or 10 points)
	statusScore := calculateStatus(listing.BusinessStatus)

	leadScore := round2(ratingScore + reviewScore + keywordScore + statusScore)

	return model.ScoredListing{
		Fields:            fields,
		Listing:           listing,
		RatingScore:       ratingScore,
		ReviewVolumeScore: reviewScore,
		KeywordScore:      keywordScore,
		StatusScore:       statusScore,
		LeadScore:         leadScore,
		Priority:          determinePriority(leadScore),
	}
}

// Rank scores every row and sorts the result by descending lead score.
// The sort is stable so ties keep their input order.
func (s *Scorer) Rank(rows []map[string]string) []model.ScoredListing {
	scored := make([]model.ScoredListing, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, s.Score(row))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].LeadScore > scored[j].LeadScore
	})

	return scored
}

// calculateKeywords counts distinct keywords present in name and types
func (s *Scorer) calculateKeywords(name, types string) float64 {
	searchable := strings.ToLower(name + " " + types)

	matches := 0
	for _, kw := range s.keywords {
		if strings.Contains(searchable, kw) {
			matches++
		}
	}

	return math.Min(float64(matches)*keywordWeight, maxKeywordScore)
}

// calculateRating clamps the rating to [0, 5] and weights it
func calculateRating(rating float64) float64 {
	if math.IsNaN(rating) {
		return 0
	}
	return math.Max(0, math.Min(rating, 5)) * ratingWeight
}

// calculateReviewVolume rewards review count with diminishing returns
func calculateReviewVolume(reviewCount int) float64 {
	if reviewCount <= 0 {
		return 0
	}
	return math.Min(math.Log10(float64(reviewCount)+1)*reviewVolumeWeight, maxReviewVolumeScore)
}

// calculateStatus scores the operating status, case-insensitively
func calculateStatus(status string) float64 {
	switch strings.ToUpper(status) {
	case model.StatusOperational:
		return operationalScore
	case model.StatusClosedTemporarily:
		return closedTemporarilyScore
	default:
		return 0
	}
}

// determinePriority buckets a lead score
func determinePriority(leadScore float64) model.Priority {
	if leadScore >= highThreshold {
		return model.PriorityHigh
	} else if leadScore >= mediumThreshold {
		return model.PriorityMedium
	}
	return model.PriorityLow
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
