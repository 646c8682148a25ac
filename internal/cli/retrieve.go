package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/retrieve"
)

var (
	retrieveCategory string
	retrieveK        int
	retrieveJSON     bool
)

// retrieveCmd represents the retrieve command
var retrieveCmd = &cobra.Command{
	Use:   "retrieve <hazard label>",
	Short: "Retrieve incident narratives supporting a hazard",
	Long: `Retrieve real OSHA incident narratives similar to a hazard description.

Candidates come from full-text narrative search, event/source
classification match, and category expansion. Fatal incidents rank
first, then longer days-away cases.`,
	Example: `  vesta retrieve "floor hole" --category "Fall Hazard"
  vesta retrieve "exposed wiring" -k 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVar(&retrieveCategory, "category", "", "hazard category for query expansion")
	retrieveCmd.Flags().IntVarP(&retrieveK, "top", "k", 0, "number of results (default from config)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	label := args[0]
	cfg := buildConfig()

	k := retrieveK
	if k <= 0 {
		k = cfg.Retrieval.DefaultK
	}

	store, err := corpus.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Searching corpus at %s for %q (k=%d)\n", cfg.DB.Path, label, k)
	}

	results, err := retrieve.NewRetriever(store).Retrieve(cmd.Context(), label, retrieveCategory, k)
	if err != nil {
		return err
	}

	if retrieveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	fmt.Println(renderEvidence(label, retrieveCategory, results))
	return nil
}
