package config

import (
	"os"
	"strconv"
)

// FromEnv overlays RACCOON_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("RACCOON_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("RACCOON_PLUGIN_ID"); v != "" {
		cfg.PluginID = v
	}
	if v := os.Getenv("RACCOON_LOAD_POLICY"); v != "" {
		cfg.LoadPolicy = v
	}
	if v := os.Getenv("RACCOON_MAX_REVISIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRevisions = n
		}
	}
	if v := os.Getenv("RACCOON_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("RACCOON_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RACCOON_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("RACCOON_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
