package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/model"
	"github.com/vestalabs/vesta/internal/stats"
)

var (
	statsDetailed bool
	statsRebuild  bool
	statsJSON     bool
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [category]",
	Short: "Show incident statistics per hazard category",
	Long: `Show precomputed incident statistics for the hazard categories.

Without arguments every category gets a one-line headline. Pass a
category name for that category only, --detailed for the full
breakdown, or --rebuild to recompute from the corpus and rewrite the
snapshot.`,
	Example: `  vesta stats
  vesta stats "Fall Hazard" --detailed
  vesta stats --rebuild`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsDetailed, "detailed", false, "full per-category breakdown")
	statsCmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "recompute from the corpus, ignoring caches")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store, err := corpus.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	workers := cfg.Concurrency.StatsWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	svc := stats.NewService(store, cfg.Cache, workers)

	if len(args) == 1 {
		return showCategory(cmd, svc, args[0])
	}

	all, err := fetchAll(cmd, svc)
	if err != nil {
		return err
	}
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	for _, category := range stats.Categories {
		st := all[category]
		if statsDetailed {
			fmt.Println(stats.Detailed(category, st))
			fmt.Println()
		} else {
			fmt.Println(stats.Headline(category, st))
		}
	}
	return nil
}

func showCategory(cmd *cobra.Command, svc *stats.Service, category string) error {
	if statsRebuild {
		if _, err := svc.Rebuild(cmd.Context()); err != nil {
			return err
		}
	}
	st, ok, err := svc.Category(cmd.Context(), category)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	if statsDetailed {
		fmt.Println(stats.Detailed(category, st))
	} else {
		fmt.Println(stats.Headline(category, st))
	}
	return nil
}

func fetchAll(cmd *cobra.Command, svc *stats.Service) (map[string]model.CategoryStats, error) {
	if statsRebuild {
		return svc.Rebuild(cmd.Context())
	}
	return svc.All(cmd.Context())
}
