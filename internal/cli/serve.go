package cli

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/server"
	"github.com/vestalabs/vesta/internal/stats"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve retrieval, scoring, and statistics over HTTP",
	Long: `Serve the evidence, site-risk, and statistics API over HTTP.

Endpoints:
  GET  /healthz
  GET  /api/v1/evidence?label=...&category=...&k=...
  POST /api/v1/site-risk
  GET  /api/v1/stats
  GET  /api/v1/stats/:category`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	statsSvc := stats.NewService(store, cfg.Cache, workers)

	return server.New(cfg, store, statsSvc).Run()
}
