package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/leadrank/internal/metrics"
	"github.com/ppiankov/leadrank/internal/model"
	"github.com/ppiankov/leadrank/internal/pipeline"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a lead CSV and save it sorted by priority",
	Long: `Score reads a lead CSV, computes four sub-scores per row (rating,
review volume, keyword intent, operating status), sums them into a
0-85 lead score and assigns a High/Medium/Low priority.

Rows are written highest score first; ties keep their input order.
Input columns are carried through unchanged and missing or malformed
values score zero rather than failing the run.

Example:
  leadrank score
  leadrank score --input leads_raw.csv --output prioritized_leads.csv`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("input", "leads_raw.csv", "input CSV path")
	scoreCmd.Flags().String("output", "prioritized_leads.csv", "output CSV path")

	_ = viper.BindPFlag("score.input", scoreCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("score.output", scoreCmd.Flags().Lookup("output"))
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	defer writeMetrics(cfg, m)

	result, err := pipeline.NewPipeline(cfg, m).Score()
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %d prioritized leads to %s\n", len(result.Leads), result.Output)
	if result.Summary.Total > 0 {
		for _, p := range model.Priorities {
			fmt.Fprintf(out, "  %-6s %d\n", p, result.Summary.ByPriority[p])
		}
		fmt.Fprintf(out, "  mean   %.2f\n", result.Summary.MeanScore)
		fmt.Fprintf(out, "  top    %.2f\n", result.Summary.TopScore)
	}
	return nil
}
