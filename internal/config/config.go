package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/mused/internal/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL is the published iTunes export the dashboard was built around.
const DefaultDatasetURL = "https://raw.githubusercontent.com/Ewurama-A/Data-Analysis/main/New_Itunes_data.csv"

// Global configuration structure.
type Global struct {
	DatasetURL string `mapstructure:"dataset_url" yaml:"dataset_url"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// Dataset fetch
	HTTPTimeoutSec    int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	FetchAttempts     int `mapstructure:"fetch_attempts" yaml:"fetch_attempts"`
	FetchRetryDelayMs int `mapstructure:"fetch_retry_delay_ms" yaml:"fetch_retry_delay_ms"`

	// Interactive callbacks
	CallbackRatePerSec float64 `mapstructure:"callback_rate_per_sec" yaml:"callback_rate_per_sec"`
	CallbackBurst      int     `mapstructure:"callback_burst" yaml:"callback_burst"`
	SessionTTLMin      int     `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// HTTPTimeout returns the dataset fetch timeout.
func (c *Global) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// FetchRetryDelay returns the base delay between fetch attempts.
func (c *Global) FetchRetryDelay() time.Duration {
	return time.Duration(c.FetchRetryDelayMs) * time.Millisecond
}

// SessionTTL returns how long an idle browser session keeps its control values.
func (c *Global) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// ShutdownTimeout returns the graceful shutdown budget for the HTTP server.
func (c *Global) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// DefaultPath returns ~/.mused/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mused", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.mused/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset_url", DefaultDatasetURL)
	v.SetDefault("listen_addr", "127.0.0.1:8050")
	// fetch defaults: a single attempt, no retry
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("fetch_attempts", 1)
	v.SetDefault("fetch_retry_delay_ms", 500)
	// callback defaults
	v.SetDefault("callback_rate_per_sec", 50.0)
	v.SetDefault("callback_burst", 20)
	v.SetDefault("session_ttl_min", 60)
	v.SetDefault("shutdown_timeout_sec", 5)
}

// Defaults returns the built-in configuration without reading files or env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	// defaults only; decoding cannot fail
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MUSED")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".mused"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.FetchAttempts < 1 {
		c.FetchAttempts = 1
	}
	return &c, nil
}
