package model

import (
	"math"
	"strconv"
	"strings"
)

// Column names shared by the fetch output and the score input
const (
	ColumnPlaceID          = "place_id"
	ColumnName             = "name"
	ColumnFormattedAddress = "formatted_address"
	ColumnRating           = "rating"
	ColumnUserRatingsTotal = "user_ratings_total"
	ColumnBusinessStatus   = "business_status"
	ColumnTypes            = "types"
	ColumnLat              = "lat"
	ColumnLng              = "lng"
)

// Columns appended by the scorer, in output order
const (
	ColumnRatingScore       = "rating_score"
	ColumnReviewVolumeScore = "review_volume_score"
	ColumnKeywordScore      = "keyword_score"
	ColumnStatusScore       = "status_score"
	ColumnLeadScore         = "lead_score"
	ColumnPriority          = "priority"
)

// RawColumns is the fixed column order of the fetch output file
var RawColumns = []string{
	ColumnPlaceID,
	ColumnName,
	ColumnFormattedAddress,
	ColumnRating,
	ColumnUserRatingsTotal,
	ColumnBusinessStatus,
	ColumnTypes,
	ColumnLat,
	ColumnLng,
}

// ScoreColumns is the fixed order of the columns appended by the scorer
var ScoreColumns = []string{
	ColumnRatingScore,
	ColumnReviewVolumeScore,
	ColumnKeywordScore,
	ColumnStatusScore,
	ColumnLeadScore,
	ColumnPriority,
}

// Business status values reported by the places API
const (
	StatusOperational       = "OPERATIONAL"
	StatusClosedTemporarily = "CLOSED_TEMPORARILY"
	StatusClosedPermanently = "CLOSED_PERMANENTLY"
)

// RawListing is one normalized business returned by the place search
type RawListing struct {
	PlaceID          string   `json:"place_id"`           // May be empty when the API omits it
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`             // 0.0 when absent
	UserRatingsTotal int      `json:"user_ratings_total"` // 0 when absent
	BusinessStatus   string   `json:"business_status"`
	Types            []string `json:"types"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
}

// Record renders the listing as a row in RawColumns order
func (l RawListing) Record() []string {
	return []string{
		l.PlaceID,
		l.Name,
		l.FormattedAddress,
		formatFloat(l.Rating),
		strconv.Itoa(l.UserRatingsTotal),
		l.BusinessStatus,
		strings.Join(l.Types, ","),
		formatCoordinate(l.Lat),
		formatCoordinate(l.Lng),
	}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatFloat renders the shortest exact form, always with a decimal part
// ("0.0", "5.0", "4.8") so float columns stay recognisable as floats.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// ListingFromFields parses a loosely typed row into a RawListing.
// Malformed numbers fall back to zero for that field only.
func ListingFromFields(fields map[string]string) RawListing {
	return RawListing{
		PlaceID:          fields[ColumnPlaceID],
		Name:             fields[ColumnName],
		FormattedAddress: fields[ColumnFormattedAddress],
		Rating:           ParseFloatOrZero(fields[ColumnRating]),
		UserRatingsTotal: ParseIntOrZero(fields[ColumnUserRatingsTotal]),
		BusinessStatus:   fields[ColumnBusinessStatus],
		Types:            SplitTypes(fields[ColumnTypes]),
		Lat:              parseCoordinate(fields[ColumnLat]),
		Lng:              parseCoordinate(fields[ColumnLng]),
	}
}

// ParseFloatOrZero parses s as a float, returning 0 for empty, malformed or NaN input
func ParseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// ParseIntOrZero parses s as an integer. Float text such as "12.0" is
// truncated toward zero and values outside the int range saturate at
// math.MaxInt or math.MinInt; anything unparseable yields 0.
func ParseIntOrZero(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f := ParseFloatOrZero(s)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// SplitTypes splits a comma-joined tag list, dropping empty entries
func SplitTypes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			types = append(types, p)
		}
	}
	return types
}

func parseCoordinate(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Priority is the coarse sales-priority bucket of a lead
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the buckets from highest to lowest
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ScoredListing is a RawListing row extended with its score breakdown.
// Fields keeps every input column untouched so extra columns pass through.
type ScoredListing struct {
	Fields  map[string]string `json:"fields"`
	Listing RawListing        `json:"listing"`

	RatingScore       float64  `json:"rating_score"`        // 0-35
	ReviewVolumeScore float64  `json:"review_volume_score"` // 0-30
	KeywordScore      float64  `json:"keyword_score"`       // 0-10
	StatusScore       float64  `json:"status_score"`        // 0, 3 or 10
	LeadScore         float64  `json:"lead_score"`          // sum rounded to 2 decimals
	Priority          Priority `json:"priority"`
}

// ScoreFields returns the appended score columns formatted for output
func (s ScoredListing) ScoreFields() map[string]string {
	return map[string]string{
		ColumnRatingScore:       formatScore(s.RatingScore),
		ColumnReviewVolumeScore: formatScore(s.ReviewVolumeScore),
		ColumnKeywordScore:      formatScore(s.KeywordScore),
		ColumnStatusScore:       formatScore(s.StatusScore),
		ColumnLeadScore:         formatScore(s.LeadScore),
		ColumnPriority:          string(s.Priority),
	}
}

// Record renders the listing in the given column order. Score columns take
// precedence over input columns of the same name.
func (s ScoredListing) Record(header []string) []string {
	scores := s.ScoreFields()
	row := make([]string, len(header))
	for i, col := range header {
		if v, ok := scores[col]; ok {
			row[i] = v
			continue
		}
		row[i] = s.Fields[col]
	}
	return row
}

// ScoredHeader appends the score columns to an input header, keeping any
// score column that already exists at its original position. Repeated
// input columns are kept once, at their first position.
func ScoredHeader(input []string) []string {
	header := make([]string, 0, len(input)+len(ScoreColumns))
	present := make(map[string]bool, len(input)+len(ScoreColumns))
	for _, col := range input {
		if !present[col] {
			present[col] = true
			header = append(header, col)
		}
	}
	for _, col := range ScoreColumns {
		if !present[col] {
			header = append(header, col)
		}
	}
	return header
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
