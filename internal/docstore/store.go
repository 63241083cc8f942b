package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/rzbill/raccoon/internal/storage/pebble"
	"github.com/rzbill/raccoon/pkg/id"
	logpkg "github.com/rzbill/raccoon/pkg/log"
)

var (
	// ErrNotFound is returned for unknown documents.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrInvalidName is returned for names that cannot be used as key segments.
	ErrInvalidName = errors.New("docstore: invalid name")
)

// Options configures a Store.
type Options struct {
	// MaxRevisions keeps only the newest N revisions per document. 0 keeps all.
	MaxRevisions int
	Logger       logpkg.Logger
}

// Store persists documents in Pebble.
type Store struct {
	db     *pebblestore.DB
	ids    *id.Generator
	max    int
	logger logpkg.Logger

	mu sync.Mutex
}

// New returns a Store backed by db.
func New(db *pebblestore.DB, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.Nop()
	}
	return &Store{db: db, ids: id.NewGenerator(), max: opts.MaxRevisions, logger: logger}
}

// RevisionInfo summarises one revision.
type RevisionInfo struct {
	ID      id.ID
	Plugins []string
	Bytes   int
}

// Meta returns the metadata of a document.
func (s *Store) Meta(doc string) (Meta, error) {
	if err := ValidateName(doc); err != nil {
		return Meta{}, err
	}
	b, err := s.db.Get(keyMeta(doc))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, doc)
		}
		return Meta{}, err
	}
	m, err := decodeMeta(b)
	if err != nil {
		return Meta{}, fmt.Errorf("docstore: decode meta for %s: %w", doc, err)
	}
	return m, nil
}

// Save writes a new revision of doc with the given plug-in chunks and returns
// its id. A save with no chunks still creates a revision.
func (s *Store) Save(ctx context.Context, doc string, chunks map[string][]byte) (id.ID, error) {
	if err := ValidateName(doc); err != nil {
		return id.ID{}, err
	}
	for plugin := range chunks {
		if err := ValidateName(plugin); err != nil {
			return id.ID{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.Meta(doc)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return id.ID{}, err
	}
	rev := s.ids.Next()
	nowMs := rev.Time().UnixMilli()
	if meta.Name == "" {
		meta = Meta{Name: doc, CreatedAtMs: nowMs}
	}
	meta.UpdatedAtMs = nowMs
	meta.Revisions++
	meta.Latest = rev.Bytes()

	b := s.db.NewBatch()
	defer b.Close()
	// The marker key makes revisions without chunks visible to Revisions.
	if err := b.Set(keyRevIDPrefix(doc, rev), nil, nil); err != nil {
		return id.ID{}, err
	}
	for plugin, data := range chunks {
		if err := b.Set(keyChunk(doc, rev, plugin), data, nil); err != nil {
			return id.ID{}, err
		}
	}

	trimmed, err := s.trimLocked(doc, &meta, b)
	if err != nil {
		return id.ID{}, err
	}

	mb, err := encodeMeta(meta)
	if err != nil {
		return id.ID{}, err
	}
	if err := b.Set(keyMeta(doc), mb, nil); err != nil {
		return id.ID{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return id.ID{}, err
	}
	s.logger.Debug("revision saved",
		logpkg.Str("doc", doc),
		logpkg.Str("rev", rev.String()),
		logpkg.Int("chunks", len(chunks)),
		logpkg.Int("trimmed", trimmed),
	)
	return rev, nil
}

// trimLocked deletes the oldest stored revisions so that, counting the one
// being written, at most s.max remain.
func (s *Store) trimLocked(doc string, meta *Meta, b *pebble.Batch) (int, error) {
	if s.max <= 0 || meta.Revisions <= s.max {
		return 0, nil
	}
	revs, err := s.Revisions(doc)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	excess := meta.Revisions - s.max
	if excess > len(revs) {
		excess = len(revs)
	}
	for _, r := range revs[:excess] {
		p := keyRevIDPrefix(doc, r.ID)
		if err := b.DeleteRange(p, prefixEnd(p), nil); err != nil {
			return 0, err
		}
	}
	meta.Revisions -= excess
	return excess, nil
}

// Revisions lists the retained revisions of doc, oldest first.
func (s *Store) Revisions(doc string) ([]RevisionInfo, error) {
	if _, err := s.Meta(doc); err != nil {
		return nil, err
	}
	prefix := keyRevPrefix(doc)
	it, err := s.db.NewIter(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []RevisionInfo
	for it.First(); it.Valid(); it.Next() {
		rev, plugin, ok := parseChunkKey(prefix, it.Key())
		if !ok {
			continue
		}
		if len(out) == 0 || out[len(out)-1].ID != rev {
			out = append(out, RevisionInfo{ID: rev})
		}
		if plugin == "" {
			continue
		}
		last := &out[len(out)-1]
		last.Plugins = append(last.Plugins, plugin)
		last.Bytes += len(it.Value())
	}
	for i := range out {
		sort.Strings(out[i].Plugins)
	}
	return out, nil
}

// LoadChunk returns the chunk plugin stored in the latest revision of doc.
// ok is false when the revision has no chunk for plugin.
func (s *Store) LoadChunk(doc, plugin string) (data []byte, ok bool, err error) {
	meta, err := s.Meta(doc)
	if err != nil {
		return nil, false, err
	}
	rev, err := meta.LatestID()
	if err != nil {
		return nil, false, fmt.Errorf("docstore: meta for %s: %w", doc, err)
	}
	data, err = s.db.Get(keyChunk(doc, rev, plugin))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
