package runtime

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rzbill/raccoon/internal/audit"
	cfgpkg "github.com/rzbill/raccoon/internal/config"
	"github.com/rzbill/raccoon/internal/docstore"
	"github.com/rzbill/raccoon/internal/host"
	pebblestore "github.com/rzbill/raccoon/internal/storage/pebble"
	logpkg "github.com/rzbill/raccoon/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Env supplies identity and time to new records; nil uses the OS.
	Env    audit.Environment
	Logger logpkg.Logger
}

// Runtime owns the store and the host for one process.
type Runtime struct {
	db     *pebblestore.DB
	store  *docstore.Store
	host   *host.Host
	config cfgpkg.Config
}

// Open validates the configuration, opens storage under
// <data dir>/store and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fsync, err := pebblestore.ParseFsyncMode(cfg.Fsync)
	if err != nil {
		return nil, err
	}
	policy, err := audit.ParseLoadPolicy(cfg.LoadPolicy)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.Nop()
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: filepath.Join(cfg.ResolvedDataDir(), "store"),
		Fsync:   fsync,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	store := docstore.New(db, docstore.Options{
		MaxRevisions: cfg.MaxRevisions,
		Logger:       logger.WithComponent("docstore"),
	})
	return &Runtime{
		db:    db,
		store: store,
		host: host.New(store, host.Options{
			PluginID:   cfg.PluginID,
			LoadPolicy: policy,
			Env:        opts.Env,
			Logger:     logger,
		}),
		config: cfg,
	}, nil
}

// Close closes open sessions, then the underlying storage.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.host.CloseAll()
	if cerr := r.db.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	r.db = nil
	return err
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil, nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Host returns the document host.
func (r *Runtime) Host() *host.Host { return r.host }

// Store returns the document store.
func (r *Runtime) Store() *docstore.Store { return r.store }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
