package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/model"
	"github.com/vestalabs/vesta/internal/score"
)

var assessJSON bool

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <hazards.yaml>",
	Short: "Score a site's hazards against the incident corpus",
	Long: `Assess site risk from a YAML file of detected hazards.

Each hazard is scored 0-100 from corpus aggregates (frequency,
fatality rate, average days away, severe-case rate) and the site
composite weights the worst hazard at 60%.

The hazards file maps ids to labeled hazards:

  h1:
    label: Floor Hole
    category: Fall Hazard
  h2:
    label: Exposed Wiring
    category: Electrical Hazard`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read hazards file: %w", err)
	}
	var registry model.Registry
	if err := yaml.Unmarshal(raw, &registry); err != nil {
		return fmt.Errorf("parse hazards file: %w", err)
	}

	cfg := buildConfig()
	store, err := corpus.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Scoring %d hazards against %s\n", len(registry), cfg.DB.Path)
	}

	risk, err := score.NewAssessor(store).Assess(cmd.Context(), registry)
	if err != nil {
		return err
	}

	if assessJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(risk)
	}
	fmt.Println(renderRiskReport(risk))
	return nil
}
