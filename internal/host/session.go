package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rzbill/raccoon/internal/archive"
	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/docstore"
	logpkg "github.com/rzbill/raccoon/pkg/log"
)

// CloseHandler is called when a Session closes.
type CloseHandler func(s *Session)

// Session is one open document.
type Session struct {
	ID       uuid.UUID
	Document string

	host    *Host
	table   *audit.Table
	logger  logpkg.Logger
	onClose []CloseHandler
	closed  bool
}

func newSession(h *Host, doc string) *Session {
	sid := uuid.New()
	logger := h.logger.With(logpkg.Str("doc", doc), logpkg.Str("session", sid.String()))
	s := &Session{
		ID:       sid,
		Document: doc,
		host:     h,
		logger:   logger,
		table: audit.NewTable(h.opts.Env,
			audit.WithLoadPolicy(h.opts.LoadPolicy),
			audit.WithLogger(logger.WithComponent("audit")),
		),
	}
	s.OnClose(func(s *Session) { s.table.OnDocumentClosed() })
	return s
}

// Table returns the session's audit table.
func (s *Session) Table() *audit.Table { return s.table }

// OnClose registers fn to run when the session closes. Handlers run in
// registration order.
func (s *Session) OnClose(fn CloseHandler) {
	s.onClose = append(s.onClose, fn)
}

// Save writes a new revision of the document. When the table does not take
// part in this kind of save, the previous revision's audit chunk is carried
// into the new revision unchanged.
func (s *Session) Save(ctx context.Context, wo audit.WriteOptions) error {
	if s.closed {
		return ErrSessionClosed
	}
	plugin := s.host.opts.PluginID
	persist := s.table.ShouldPersist(wo)
	chunks := map[string][]byte{}
	var written int64
	if persist {
		var buf bytes.Buffer
		w := archive.NewWriter(&buf)
		s.table.OnSave(w, wo)
		if err := w.Err(); err != nil {
			return fmt.Errorf("host: write audit chunk: %w", err)
		}
		written = w.Written()
		chunks[plugin] = buf.Bytes()
	} else {
		prev, ok, err := s.host.store.LoadChunk(s.Document, plugin)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("host: carry audit chunk: %w", err)
		}
		if ok {
			chunks[plugin] = prev
		}
	}
	rev, err := s.host.store.Save(ctx, s.Document, chunks)
	if err != nil {
		return err
	}
	s.logger.Info("document saved",
		logpkg.Str("rev", rev.String()),
		logpkg.Bool("audit", persist),
		logpkg.Int64("bytes", written),
		logpkg.Int("records", s.table.Len()),
	)
	return nil
}

// Import reads another document's audit chunk into this session, as the host
// does when a file is imported or linked. Records from it are not merged.
func (s *Session) Import(ctx context.Context, doc string, reference bool) error {
	if s.closed {
		return ErrSessionClosed
	}
	ro := audit.ReadOptions{ImportMode: !reference, ImportReferenceMode: reference}
	return s.load(ctx, doc, ro)
}

// Close runs the close handlers and detaches the session from its Host.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	for _, fn := range s.onClose {
		fn(s)
	}
	s.host.forget(s)
	s.logger.Info("document closed")
	return nil
}

func (s *Session) load(ctx context.Context, doc string, ro audit.ReadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, ok, err := s.host.store.LoadChunk(doc, s.host.opts.PluginID)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("no audit chunk", logpkg.Str("source", doc))
		return nil
	}
	r := archive.NewReader(bytes.NewReader(data))
	s.table.OnLoad(r, ro)
	if err := r.Err(); err != nil {
		s.logger.Warn("audit chunk read error", logpkg.Str("source", doc), logpkg.Err(err))
	}
	return nil
}
