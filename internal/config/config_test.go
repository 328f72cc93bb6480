package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false; homedir.Reset() })
	return home
}

func TestLoadDefaults(t *testing.T) {
	withHome(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatasetURL != DefaultDatasetURL {
		t.Fatalf("dataset_url = %q", c.DatasetURL)
	}
	if c.ListenAddr != "127.0.0.1:8050" {
		t.Fatalf("listen_addr = %q", c.ListenAddr)
	}
	if c.FetchAttempts != 1 {
		t.Fatalf("fetch_attempts = %d, want 1 (no retry)", c.FetchAttempts)
	}
	if c.HTTPTimeout() != 30*time.Second {
		t.Fatalf("timeout = %v", c.HTTPTimeout())
	}
	if c.SessionTTL() != time.Hour {
		t.Fatalf("session ttl = %v", c.SessionTTL())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	withHome(t)
	p := filepath.Join(t.TempDir(), "mused.yaml")
	content := "dataset_url: ./tracks.csv\nlisten_addr: 0.0.0.0:9000\ncallback_burst: 3\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MUSED_LISTEN_ADDR", "127.0.0.1:7000")
	t.Setenv("MUSED_CALLBACK_RATE_PER_SEC", "2.5")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatasetURL != "./tracks.csv" {
		t.Fatalf("dataset_url from file = %q", c.DatasetURL)
	}
	if c.ListenAddr != "127.0.0.1:7000" {
		t.Fatalf("env should win over file, got %q", c.ListenAddr)
	}
	if c.CallbackBurst != 3 {
		t.Fatalf("callback_burst = %d", c.CallbackBurst)
	}
	if c.CallbackRatePerSec != 2.5 {
		t.Fatalf("callback_rate_per_sec = %v", c.CallbackRatePerSec)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	withHome(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestSaveRoundTripDefaultPath(t *testing.T) {
	home := withHome(t)
	c := Defaults()
	c.DatasetURL = "/data/itunes.csv"
	c.FetchAttempts = 3
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".mused", "config.yaml")); err != nil {
		t.Fatalf("config not written under home: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DatasetURL != "/data/itunes.csv" || got.FetchAttempts != 3 {
		t.Fatalf("unexpected reload: %+v", got)
	}
}
