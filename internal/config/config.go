package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/docstore"
	pebblestore "github.com/rzbill/raccoon/internal/storage/pebble"
	logpkg "github.com/rzbill/raccoon/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir holds the document store. Empty means DefaultDataDir().
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// PluginID keys our user-data chunk inside each document revision.
	PluginID string `json:"pluginId" yaml:"pluginId"`
	// LoadPolicy is append or replace.
	LoadPolicy string `json:"loadPolicy" yaml:"loadPolicy"`
	// MaxRevisions bounds stored revisions per document; 0 keeps all.
	MaxRevisions int `json:"maxRevisions" yaml:"maxRevisions"`
	// Fsync is always, interval or never.
	Fsync string `json:"fsync" yaml:"fsync"`
	Log   logpkg.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		PluginID:   "raccoon",
		LoadPolicy: "append",
		Fsync:      "always",
		Log: logpkg.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a JSON or YAML file (by extension) over Default(). An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks enumerated values and names.
func (c Config) Validate() error {
	if err := docstore.ValidateName(c.PluginID); err != nil {
		return fmt.Errorf("pluginId: %w", err)
	}
	if _, err := audit.ParseLoadPolicy(c.LoadPolicy); err != nil {
		return err
	}
	if _, err := pebblestore.ParseFsyncMode(c.Fsync); err != nil {
		return err
	}
	if _, err := logpkg.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.MaxRevisions < 0 {
		return fmt.Errorf("maxRevisions must be >= 0, got %d", c.MaxRevisions)
	}
	return nil
}

// ResolvedDataDir returns DataDir or the OS default.
func (c Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}
