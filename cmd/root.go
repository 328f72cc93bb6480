package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/mused/internal/config"
	"github.com/KaramelBytes/mused/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset/HTTP flags (override config if set)
	flagDataset        string
	flagAddr           string
	flagHTTPTimeoutSec int
	flagFetchAttempts  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "mused",
	Short: "Mused: an interactive iTunes music dashboard",
	Long: `Mused loads an iTunes track export (CSV) and serves a single-page dashboard:
song counts per artist, storage per genre, runtime against size, headline
averages, and a filter that lists an artist's songs by genre and runtime.

Running mused without a subcommand is the same as "mused serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mused/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "dataset URL or local CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "listen address, e.g. 127.0.0.1:8050 (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "dataset fetch timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFetchAttempts, "fetch-attempts", 0, "dataset fetch attempts on 429/5xx/network errors (overrides config)")
}

func loadConfig() {
	utils.SetDebug(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("dataset") && flagDataset != "" {
		cfg.DatasetURL = flagDataset
	}
	if f.Changed("addr") && flagAddr != "" {
		cfg.ListenAddr = flagAddr
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("fetch-attempts") && flagFetchAttempts > 0 {
		cfg.FetchAttempts = flagFetchAttempts
	}
	utils.Debugf("config: dataset=%s addr=%s attempts=%d", cfg.DatasetURL, cfg.ListenAddr, cfg.FetchAttempts)
}
