package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/leadrank/internal/logging"
	"github.com/ppiankov/leadrank/internal/metrics"
	"github.com/ppiankov/leadrank/internal/model"
)

const version = "leadrank v0.1.0"

var (
	cfgFile     string
	verbose     bool
	logJSON     bool
	metricsFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "leadrank",
	Short: "Leadrank - HVAC lead discovery and prioritization",
	Long: `Leadrank finds local HVAC businesses with a place text search and
ranks them for outreach.

The workflow runs in two independent steps:
  leadrank fetch   search places and save raw leads to CSV
  leadrank score   score a lead CSV and save it sorted by priority

Each step reads and writes flat CSV files, so the score step can be
re-run on edited or hand-built input without touching the API.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(cmd.ErrOrStderr(), viper.GetBool("output.verbose"), viper.GetBool("output.log_json"))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Leadrank.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.leadrank/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this path in Prometheus text format")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = viper.BindPFlag("output.metrics_file", rootCmd.PersistentFlags().Lookup("metrics-file"))

	setDefaults(viper.GetViper(), model.DefaultConfig())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// setDefaults registers every config key so env lookups and Unmarshal see it
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("places.base_url", cfg.Places.BaseURL)
	v.SetDefault("places.api_key", cfg.Places.APIKey)
	v.SetDefault("places.page_token_delay", cfg.Places.PageTokenDelay)
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)
	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	v.SetDefault("fetch.query", cfg.Fetch.Query)
	v.SetDefault("fetch.output", cfg.Fetch.Output)
	v.SetDefault("fetch.max_results", cfg.Fetch.MaxResults)
	v.SetDefault("score.input", cfg.Score.Input)
	v.SetDefault("score.output", cfg.Score.Output)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
	v.SetDefault("output.log_json", cfg.Output.LogJSON)
	v.SetDefault("output.metrics_file", cfg.Output.MetricsFile)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// A missing .env is the normal case
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".leadrank"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LEADRANK_*
	viper.SetEnvPrefix("LEADRANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("places.api_key", "GOOGLE_PLACES_API_KEY", "LEADRANK_PLACES_API_KEY")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves defaults, config file, env and flags into a Config
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeMetrics exports run metrics when a path is configured. A failed
// export is logged, never fatal.
func writeMetrics(cfg *model.Config, m *metrics.Metrics) {
	if cfg.Output.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		log.Warn().Err(err).Str("path", cfg.Output.MetricsFile).Msg("metrics export failed")
		return
	}
	log.Debug().Str("path", cfg.Output.MetricsFile).Msg("metrics written")
}
