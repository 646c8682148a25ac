package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vestalabs/vesta/internal/model"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vesta",
	Short: "Vesta - hazard evidence retrieval & site risk scoring from OSHA incident data",
	Long: `Vesta analyzes workplace hazards against historical OSHA incident records.

Given a hazard description it retrieves real incident narratives as
supporting evidence, and scores hazards 0-100 purely from aggregate
incident statistics: how often a hazard appears, how often it kills,
how many work days it costs, and how often it causes severe injuries.

No external severity inputs, no model guesses - every number traces
back to what actually happened to workers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vesta v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.vesta/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the incident corpus database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
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
		viper.AddConfigPath(home + "/.vesta")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match VESTA_*
	viper.SetEnvPrefix("VESTA")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig merges defaults, the config file, env vars, and flags.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	if v := viper.GetString("db.path"); v != "" {
		cfg.DB.Path = v
	}
	if v := viper.GetString("cache.snapshot_path"); v != "" {
		cfg.Cache.SnapshotPath = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetInt("retrieval.default_k"); v > 0 {
		cfg.Retrieval.DefaultK = v
	}
	if v := viper.GetInt("concurrency.stats_workers"); v > 0 {
		cfg.Concurrency.StatsWorkers = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetFloat64("server.requests_per_second"); v > 0 {
		cfg.Server.RequestsPerSecond = v
	}
	if v := viper.GetInt("server.burst"); v > 0 {
		cfg.Server.Burst = v
	}
	cfg.Output.Verbose = verbose
	return cfg
}
