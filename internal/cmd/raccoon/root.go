package raccooncmd

import (
	"context"
	"fmt"

	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/config"
	"github.com/rzbill/raccoon/internal/runtime"
	logpkg "github.com/rzbill/raccoon/pkg/log"
	"github.com/spf13/cobra"
)

// Options customise the root command; zero values use the real environment.
type Options struct {
	Env audit.Environment
	// Logger overrides the logger built from configuration.
	Logger logpkg.Logger
}

// NewRoot constructs the root command and registers subcommands.
func NewRoot(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "raccoon",
		Short:         "Document save audit trail",
		Long:          "raccoon records who saved a document, on which machine and when, inside the document itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (.json, .yaml)")
	root.PersistentFlags().String("data-dir", "", "Document store directory (default: OS-specific data directory)")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().String("log-format", "", "Log format: text|json")

	root.AddCommand(
		newSaveCommand(opts),
		newListCommand(opts),
		newImportCommand(opts),
		newRevisionsCommand(opts),
		newDoctorCommand(opts),
	)
	return root
}

// loadConfig resolves file, env and flag settings, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	config.FromEnv(&cfg)
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// withRuntime opens the runtime, runs fn and closes everything.
func withRuntime(cmd *cobra.Command, opts Options, fn func(ctx context.Context, rt *runtime.Runtime) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger, err = logpkg.ApplyConfig(&cfg.Log)
		if err != nil {
			return err
		}
	}
	logpkg.RedirectStdLog(logger)

	rt, err := runtime.Open(runtime.Options{Config: cfg, Env: opts.Env, Logger: logger})
	if err != nil {
		return err
	}
	ferr := fn(cmd.Context(), rt)
	if cerr := rt.Close(); ferr == nil {
		ferr = cerr
	}
	return ferr
}
