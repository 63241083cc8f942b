// Package config loads Raccoon configuration. Default() gives the baseline,
// Load reads a JSON or YAML file over it and FromEnv overlays RACCOON_*
// variables.
//
//	cfg, err := config.Load("/etc/raccoon.yaml")
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* handle */ }
package config
