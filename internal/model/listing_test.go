package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawListing_Record(t *testing.T) {
	lat, lng := 30.2672, -97.7431
	l := RawListing{
		PlaceID:          "abc",
		Name:             "Austin HVAC",
		FormattedAddress: "1 Main St, Austin, TX",
		Rating:           4.5,
		UserRatingsTotal: 12,
		BusinessStatus:   StatusOperational,
		Types:            []string{"hvac", "contractor"},
		Lat:              &lat,
		Lng:              &lng,
	}

	assert.Equal(t, []string{
		"abc", "Austin HVAC", "1 Main St, Austin, TX", "4.5", "12",
		"OPERATIONAL", "hvac,contractor", "30.2672", "-97.7431",
	}, l.Record())

	bare := RawListing{Name: "Bare"}
	assert.Equal(t, []string{"", "Bare", "", "0.0", "0", "", "", "", ""}, bare.Record())

	whole, lat0 := 5.0, -97.0
	rounded := RawListing{Rating: whole, Lat: &lat0, Lng: &lat0}.Record()
	assert.Equal(t, "5.0", rounded[3])
	assert.Equal(t, "-97.0", rounded[7])
}

func TestListingFromFields(t *testing.T) {
	l := ListingFromFields(map[string]string{
		"name":               "Cool Air",
		"rating":             " 4.2 ",
		"user_ratings_total": "37.0",
		"business_status":    "CLOSED_TEMPORARILY",
		"types":              "hvac, ,contractor",
		"lat":                "30.1",
		"lng":                "oops",
	})

	assert.Equal(t, "Cool Air", l.Name)
	assert.Equal(t, 4.2, l.Rating)
	assert.Equal(t, 37, l.UserRatingsTotal)
	assert.Equal(t, []string{"hvac", "contractor"}, l.Types)
	if assert.NotNil(t, l.Lat) {
		assert.Equal(t, 30.1, *l.Lat)
	}
	assert.Nil(t, l.Lng)
}

func TestParseFloatOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4.8", 4.8},
		{"", 0},
		{"N/A", 0},
		{"NaN", 0},
		{"-1", -1},
		{"1e1", 10},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFloatOrZero(tt.in))
		})
	}
}

func TestParseIntOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"150", 150},
		{"12.9", 12},
		{"-3.5", -3},
		{"", 0},
		{"many", 0},
		{"1e30", math.MaxInt},
		{"99999999999999999999", math.MaxInt},
		{"-1e30", math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntOrZero(tt.in))
		})
	}
}

func TestScoredHeader(t *testing.T) {
	in := []string{"name", "lead_score", "owner"}
	got := ScoredHeader(in)

	assert.Equal(t, []string{
		"name", "lead_score", "owner",
		"rating_score", "review_volume_score", "keyword_score", "status_score", "priority",
	}, got)
	assert.Equal(t, []string{"name", "lead_score", "owner"}, in, "input header untouched")
}

func TestScoredHeader_RepeatedColumns(t *testing.T) {
	got := ScoredHeader([]string{"name", "rating", "name", "priority", "priority"})

	assert.Equal(t, []string{
		"name", "rating", "priority",
		"rating_score", "review_volume_score", "keyword_score", "status_score", "lead_score",
	}, got)
}

func TestScoredListing_Record(t *testing.T) {
	s := ScoredListing{
		Fields:            map[string]string{"name": "Cool Air", "lead_score": "stale", "owner": "pat"},
		RatingScore:       29.4,
		ReviewVolumeScore: 0,
		KeywordScore:      1.5,
		StatusScore:       10,
		LeadScore:         40.9,
		Priority:          PriorityMedium,
	}

	header := ScoredHeader([]string{"name", "lead_score", "owner", "missing"})
	assert.Equal(t, []string{
		"Cool Air", "40.90", "pat", "",
		"29.40", "0.00", "1.50", "10.00", "Medium",
	}, s.Record(header))
}
