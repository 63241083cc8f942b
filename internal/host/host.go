package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/docstore"
	logpkg "github.com/rzbill/raccoon/pkg/log"
)

var (
	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("host: session closed")
	// ErrAlreadyOpen is returned when a document already has a live Session.
	ErrAlreadyOpen = errors.New("host: document already open")
)

// Options configures a Host.
type Options struct {
	// PluginID keys the audit chunk inside document revisions.
	PluginID   string
	LoadPolicy audit.LoadPolicy
	// Env supplies identity for new records. Nil uses audit.OSEnvironment.
	Env    audit.Environment
	Logger logpkg.Logger
}

// Host tracks open document sessions.
type Host struct {
	store  *docstore.Store
	opts   Options
	logger logpkg.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New returns a Host saving into store.
func New(store *docstore.Store, opts Options) *Host {
	if opts.PluginID == "" {
		opts.PluginID = "raccoon"
	}
	if opts.Env == nil {
		opts.Env = audit.OSEnvironment{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.Nop()
	}
	return &Host{
		store:    store,
		opts:     opts,
		logger:   logger.WithComponent("host"),
		sessions: make(map[string]*Session),
	}
}

// Open starts a session for doc and loads its audit chunk if one is stored.
// A document that does not exist yet opens with an empty table.
func (h *Host) Open(ctx context.Context, doc string, ro audit.ReadOptions) (*Session, error) {
	if err := docstore.ValidateName(doc); err != nil {
		return nil, err
	}
	h.mu.Lock()
	if _, ok := h.sessions[doc]; ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, doc)
	}
	s := newSession(h, doc)
	h.sessions[doc] = s
	h.mu.Unlock()

	if err := s.load(ctx, doc, ro); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		h.forget(s)
		return nil, err
	}
	h.logger.Info("document opened",
		logpkg.Str("doc", doc),
		logpkg.Str("session", s.ID.String()),
		logpkg.Int("records", s.table.Len()),
	)
	return s, nil
}

// Session returns the live session for doc, if any.
func (h *Host) Session(doc string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[doc]
	return s, ok
}

// Documents lists the names of open documents.
func (h *Host) Documents() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.sessions))
	for name := range h.sessions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CloseAll closes every open session.
func (h *Host) CloseAll() error {
	h.mu.Lock()
	open := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Host) forget(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.Document] == s {
		delete(h.sessions, s.Document)
	}
}
