package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/leadrank/internal/metrics"
	"github.com/ppiankov/leadrank/internal/model"
	"github.com/ppiankov/leadrank/internal/util"
	"github.com/ppiankov/leadrank/internal/worker"
)

// MaxResultsPerQuery is the most a single text search will ever return
// (three pages of twenty). Larger max values are accepted but never reached.
const MaxResultsPerQuery = 60

// API status values that carry a usable response
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// ErrMissingAPIKey is returned before any request when no credential is set
var ErrMissingAPIKey = errors.New("missing GOOGLE_PLACES_API_KEY: set it in the environment or .env")

// APIError is a search response whose status is neither OK nor ZERO_RESULTS
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places API returned %s: %s", e.Status, e.Message)
}

// Fetcher runs paginated place text searches
type Fetcher struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	userAgent      string
	maxBytes       int64
	pageTokenDelay time.Duration
	limiter        *worker.Limiter
	metrics        *metrics.Metrics
}

// NewFetcher creates a Fetcher from configuration. m may be nil.
func NewFetcher(cfg *model.Config, m *metrics.Metrics) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
		},
		baseURL:        cfg.Places.BaseURL,
		apiKey:         strings.TrimSpace(cfg.Places.APIKey),
		userAgent:      cfg.HTTP.UserAgent,
		maxBytes:       cfg.HTTP.MaxBodyBytes,
		pageTokenDelay: cfg.Places.PageTokenDelay,
		limiter:        worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		metrics:        m,
	}
}

// searchResponse is the subset of the text search payload we read
type searchResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	NextPageToken string        `json:"next_page_token"`
	Results       []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// normalize maps one API result onto a RawListing, defaulting absent fields
func (r placeResult) normalize() model.RawListing {
	listing := model.RawListing{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		BusinessStatus:   r.BusinessStatus,
		Types:            r.Types,
	}
	if loc := r.Geometry.Location; loc != nil {
		listing.Lat = loc.Lat
		listing.Lng = loc.Lng
	}
	return listing
}

// Search collects up to maxResults listings for query, following
// continuation tokens. Any non-OK status aborts the whole search.
func (f *Fetcher) Search(ctx context.Context, query string, maxResults int) ([]model.RawListing, error) {
	if f.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if maxResults > MaxResultsPerQuery {
		log.Warn().
			Int("max_results", maxResults).
			Int("api_ceiling", MaxResultsPerQuery).
			Msg("max results exceeds what the places API returns per query")
	}

	collected := make([]model.RawListing, 0, min(max(maxResults, 0), MaxResultsPerQuery))
	params := url.Values{"query": {query}, "key": {f.apiKey}}
	page := 0

	for len(collected) < maxResults {
		page++

		var wait error
		if page == 1 {
			wait = f.limiter.Wait(ctx, f.baseURL)
		} else {
			wait = f.limiter.WaitWithDelay(ctx, f.baseURL, f.pageTokenDelay)
		}
		if wait != nil {
			return nil, fmt.Errorf("rate limit: %w", wait)
		}

		resp, err := f.fetchPage(ctx, params)
		if err != nil {
			f.metrics.ObservePlacesRequest("")
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		f.metrics.ObservePlacesRequest(resp.Status)

		if resp.Status != statusOK && resp.Status != statusZeroResults {
			msg := resp.ErrorMessage
			if msg == "" {
				msg = "No additional details provided."
			}
			return nil, &APIError{Status: resp.Status, Message: msg}
		}

		before := len(collected)
		for _, r := range resp.Results {
			collected = append(collected, r.normalize())
			if len(collected) >= maxResults {
				break
			}
		}
		f.metrics.AddPlacesResults(len(collected) - before)

		log.Debug().
			Int("page", page).
			Str("status", resp.Status).
			Int("results", len(resp.Results)).
			Int("collected", len(collected)).
			Bool("has_next", resp.NextPageToken != "").
			Msg("places page fetched")

		if resp.NextPageToken == "" {
			break
		}
		params = url.Values{"pagetoken": {resp.NextPageToken}, "key": {f.apiKey}}
	}

	return collected, nil
}

// fetchPage issues one search request and decodes the JSON payload
func (f *Fetcher) fetchPage(ctx context.Context, params url.Values) (*searchResponse, error) {
	reqURL := f.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", redactKey(err, f.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &payload, nil
}

// redactKey strips the API key from transport errors, which embed the URL
func redactKey(err error, key string) error {
	var uerr *url.Error
	if key == "" || !errors.As(err, &uerr) {
		return err
	}
	redacted := *uerr
	redacted.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(key), "REDACTED")
	return &redacted
}
