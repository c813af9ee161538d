package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultPlacesURL, cfg.Places.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Places.PageTokenDelay)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "HVAC contractors in Austin, TX", cfg.Fetch.Query)
	assert.Equal(t, "leads_raw.csv", cfg.Fetch.Output)
	assert.Equal(t, 60, cfg.Fetch.MaxResults)
	assert.Equal(t, "leads_raw.csv", cfg.Score.Input)
	assert.Equal(t, "prioritized_leads.csv", cfg.Score.Output)
	require.NoError(t, cfg.Validate(), "defaults are valid without an API key")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.Places.BaseURL = "not a url" },
			wantErr: "Places.BaseURL",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: "HTTP.Timeout",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.RateLimiting.RequestsPerSecond = 0 },
			wantErr: "RateLimiting.RequestsPerSecond",
		},
		{
			name:    "empty score output",
			mutate:  func(c *Config) { c.Score.Output = "" },
			wantErr: "Score.Output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error:")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateNonPositiveMaxResults(t *testing.T) {
	for _, n := range []int{0, -1} {
		cfg := DefaultConfig()
		cfg.Fetch.MaxResults = n
		assert.NoError(t, cfg.Validate(), "max_results=%d", n)
	}
}
