package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultPlacesURL is the Places Text Search JSON endpoint
const DefaultPlacesURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// Config is the complete leadrank configuration
type Config struct {
	Places       PlacesConfig       `mapstructure:"places" yaml:"places"`
	HTTP         HTTPConfig         `mapstructure:"http" yaml:"http"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Fetch        FetchConfig        `mapstructure:"fetch" yaml:"fetch"`
	Score        ScoreConfig        `mapstructure:"score" yaml:"score"`
	Output       OutputConfig       `mapstructure:"output" yaml:"output"`
}

// PlacesConfig configures the place search endpoint
type PlacesConfig struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	APIKey         string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	PageTokenDelay time.Duration `mapstructure:"page_token_delay" yaml:"page_token_delay" validate:"gte=0"` // Wait before a next_page_token becomes valid
}

// HTTPConfig configures the outbound HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	HTTPProxy    string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy      string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// RateLimitingConfig caps the request rate against the API host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `mapstructure:"burst_size" yaml:"burst_size" validate:"gte=1"`
}

// FetchConfig holds the fetch command inputs
type FetchConfig struct {
	Query      string `mapstructure:"query" yaml:"query"`
	Output     string `mapstructure:"output" yaml:"output" validate:"required"`
	MaxResults int    `mapstructure:"max_results" yaml:"max_results"` // <= 0 fetches nothing
}

// ScoreConfig holds the score command inputs
type ScoreConfig struct {
	Input  string `mapstructure:"input" yaml:"input" validate:"required"`
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// OutputConfig controls logging and side outputs
type OutputConfig struct {
	Verbose     bool   `mapstructure:"verbose" yaml:"verbose"`
	LogJSON     bool   `mapstructure:"log_json" yaml:"log_json"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file,omitempty"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Places: PlacesConfig{
			BaseURL:        DefaultPlacesURL,
			PageTokenDelay: 2 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "leadrank/0.1 (+https://github.com/ppiankov/leadrank)",
			MaxBodyBytes: 5_000_000,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         1,
		},
		Fetch: FetchConfig{
			Query:      "HVAC contractors in Austin, TX",
			Output:     "leads_raw.csv",
			MaxResults: 60,
		},
		Score: ScoreConfig{
			Input:  "leads_raw.csv",
			Output: "prioritized_leads.csv",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges. The API key is not checked here; a missing
// key is reported by the fetcher before any request is made.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fieldPath(fe.Namespace()), fe.ActualTag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
