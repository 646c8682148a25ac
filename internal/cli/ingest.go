package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/ingest"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv> [file.csv...]",
	Short: "Load OSHA ITA Case Detail CSV files into the corpus",
	Long: `Load OSHA ITA Case Detail CSV exports into the incident corpus.

Only construction-sector rows (NAICS prefix 23) are kept. Files are
decoded as UTF-8 when valid, falling back to CP1252 and then Latin-1.
The full-text index is rebuilt once after the last file.`,
	Example: `  vesta ingest ITA-2023.csv ITA-2024.csv --db ~/.vesta/osha_incidents.db`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	store, err := corpus.Create(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	total, files, err := ingest.NewLoader(store).LoadFiles(cmd.Context(), args)
	for _, f := range files {
		fmt.Printf("%s: loaded %d, skipped %d (%s)\n", f.Path, f.Loaded, f.Skipped, f.Encoding)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d incidents into %s\n", total, cfg.DB.Path)
	if cfg.Output.Verbose {
		fmt.Fprintln(os.Stderr, "Full-text index rebuilt")
	}
	return nil
}
