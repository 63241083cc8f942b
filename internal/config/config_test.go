package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.PluginID != "raccoon" {
		t.Fatalf("default plugin id")
	}
	if cfg.LoadPolicy != "append" {
		t.Fatalf("default load policy")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default should validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "raccoon.json")
	data := []byte(`{"loadPolicy":"replace","maxRevisions":5,"log":{"level":"debug"}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LoadPolicy != "replace" || cfg.MaxRevisions != 5 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("log config not merged over defaults: %+v", cfg.Log)
	}
	if cfg.PluginID != "raccoon" {
		t.Fatalf("defaults lost")
	}
}

func TestLoadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "raccoon.yaml")
	data := []byte("dataDir: /srv/raccoon\nfsync: interval\nlog:\n  format: json\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/srv/raccoon" || cfg.Fsync != "interval" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.ResolvedDataDir() != "/srv/raccoon" {
		t.Fatalf("resolved data dir")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	file := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(file, []byte("log: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("RACCOON_LOAD_POLICY", "replace")
	t.Setenv("RACCOON_MAX_REVISIONS", "12")
	t.Setenv("RACCOON_LOG_LEVEL", "warn")
	t.Setenv("RACCOON_MAX_REVISIONS_IGNORED", "x")
	FromEnv(&cfg)
	if cfg.LoadPolicy != "replace" || cfg.MaxRevisions != 12 || cfg.Log.Level != "warn" {
		t.Fatalf("env overlay failed: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"bad policy", func(c *Config) { c.LoadPolicy = "merge" }, "load policy"},
		{"bad fsync", func(c *Config) { c.Fsync = "sometimes" }, "fsync"},
		{"bad plugin", func(c *Config) { c.PluginID = "a/b" }, "pluginId"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"negative revisions", func(c *Config) { c.MaxRevisions = -1 }, "maxRevisions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("expected error containing %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestDefaultDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/raccoon" {
		t.Fatalf("got %s", got)
	}
}

func TestDefaultDataDirNoHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "")
	if got := DefaultDataDir(); got != "./data" {
		t.Fatalf("expected ./data fallback, got %s", got)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Errorf("expected . to be a dir")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Errorf("expected missing path to not be a dir")
	}
}
