package cmd

import (
	"fmt"
	"os"
	"strconv"

	cfgpkg "github.com/KaramelBytes/mused/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Mused configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "dataset_url: %s\n", cfg.DatasetURL)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "fetch_attempts: %d\n", cfg.FetchAttempts)
		fmt.Fprintf(out, "fetch_retry_delay_ms: %d\n", cfg.FetchRetryDelayMs)
		fmt.Fprintf(out, "callback_rate_per_sec: %.3f\n", cfg.CallbackRatePerSec)
		fmt.Fprintf(out, "callback_burst: %d\n", cfg.CallbackBurst)
		fmt.Fprintf(out, "session_ttl_min: %d\n", cfg.SessionTTLMin)
		fmt.Fprintf(out, "shutdown_timeout_sec: %d\n", cfg.ShutdownTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file on disk so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}
		if err := cfgpkg.Save(cfgpkg.Defaults(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config initialized: %s\n", path)
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	atoi := func(lo int) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < lo {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "dataset_url":
		if val == "" {
			return fmt.Errorf("dataset_url cannot be empty")
		}
		c.DatasetURL = val
	case "listen_addr":
		c.ListenAddr = val
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = atoi(1)
	case "fetch_attempts":
		c.FetchAttempts, err = atoi(1)
	case "fetch_retry_delay_ms":
		c.FetchRetryDelayMs, err = atoi(0)
	case "callback_rate_per_sec":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f < 0 {
			return fmt.Errorf("invalid float for callback_rate_per_sec: %v", val)
		}
		c.CallbackRatePerSec = f
	case "callback_burst":
		c.CallbackBurst, err = atoi(1)
	case "session_ttl_min":
		c.SessionTTLMin, err = atoi(0)
	case "shutdown_timeout_sec":
		c.ShutdownTimeoutSec, err = atoi(1)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}
