package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/leadrank/internal/metrics"
	"github.com/ppiankov/leadrank/internal/pipeline"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search places and save raw leads to CSV",
	Long: `Fetch runs a place text search, follows continuation pages until
max-results listings are collected or no pages remain, and writes one
row per listing.

The API key is read from GOOGLE_PLACES_API_KEY (or a .env file). Any
non-OK API status aborts the run and no file is written.

Example:
  leadrank fetch
  leadrank fetch --query "HVAC contractors in Dallas, TX" --output dallas.csv
  leadrank fetch --max-results 20 -v`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("query", "HVAC contractors in Austin, TX", "text search query")
	fetchCmd.Flags().String("output", "leads_raw.csv", "output CSV path")
	fetchCmd.Flags().Int("max-results", 60, "stop after this many listings (the API returns at most 60)")

	_ = viper.BindPFlag("fetch.query", fetchCmd.Flags().Lookup("query"))
	_ = viper.BindPFlag("fetch.output", fetchCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("fetch.max_results", fetchCmd.Flags().Lookup("max-results"))
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	defer writeMetrics(cfg, m)

	result, err := pipeline.NewPipeline(cfg, m).Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d leads to %s\n", len(result.Listings), result.Output)
	return nil
}
