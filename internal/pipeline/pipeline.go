package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/leadrank/internal/metrics"
	"github.com/ppiankov/leadrank/internal/model"
	"github.com/ppiankov/leadrank/internal/score"
	"github.com/ppiankov/leadrank/internal/storage"
)

// Pipeline runs the two batch steps: fetch-and-save and score-and-prioritize
type Pipeline struct {
	fetcher *Fetcher
	scorer  *score.Scorer
	metrics *metrics.Metrics
	config  *model.Config
}

// NewPipeline creates a new pipeline with the given configuration. m may be nil.
func NewPipeline(cfg *model.Config, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		fetcher: NewFetcher(cfg, m),
		scorer:  score.NewScorer(),
		metrics: m,
		config:  cfg,
	}
}

// FetchResult describes a completed fetch step
type FetchResult struct {
	Listings []model.RawListing
	Output   string
}

// Fetch searches for the configured query and writes every listing to the
// configured output. Nothing is written unless pagination completes.
func (p *Pipeline) Fetch(ctx context.Context) (*FetchResult, error) {
	cfg := p.config.Fetch

	log.Info().
		Str("query", cfg.Query).
		Int("max_results", cfg.MaxResults).
		Msg("fetching leads")

	listings, err := p.fetcher.Search(ctx, cfg.Query, cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if err := storage.WriteRawListings(cfg.Output, listings); err != nil {
		return nil, fmt.Errorf("save leads: %w", err)
	}

	log.Info().
		Int("leads", len(listings)).
		Str("output", cfg.Output).
		Msg("raw leads saved")

	return &FetchResult{Listings: listings, Output: cfg.Output}, nil
}

// ScoreResult describes a completed score step
type ScoreResult struct {
	Leads   []model.ScoredListing
	Summary score.Summary
	Output  string
}

// Score reads the configured input, ranks every row and writes the ranked
// set to the configured output.
func (p *Pipeline) Score() (*ScoreResult, error) {
	cfg := p.config.Score

	table, err := storage.ReadTable(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	leads := p.scorer.Rank(table.Rows)
	for _, l := range leads {
		p.metrics.ObserveLead(string(l.Priority), l.LeadScore)
	}

	if err := storage.WriteScored(cfg.Output, model.ScoredHeader(table.Header), leads); err != nil {
		return nil, fmt.Errorf("save prioritized leads: %w", err)
	}

	summary := score.Summarize(leads)
	log.Info().
		Int("leads", summary.Total).
		Int("high", summary.ByPriority[model.PriorityHigh]).
		Int("medium", summary.ByPriority[model.PriorityMedium]).
		Int("low", summary.ByPriority[model.PriorityLow]).
		Float64("mean_score", summary.MeanScore).
		Str("output", cfg.Output).
		Msg("prioritized leads saved")

	return &ScoreResult{Leads: leads, Summary: summary, Output: cfg.Output}, nil
}
