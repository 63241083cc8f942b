package audit

import (
	"github.com/rzbill/raccoon/internal/archive"
	logpkg "github.com/rzbill/raccoon/pkg/log"
)

// Table chunk version.
const (
	tableMajor = 1
	tableMinor = 0
)

// Table is the ordered list of Records for one document session, oldest first.
// It only grows, except through OnDocumentClosed or a clean LoadReplace load.
type Table struct {
	records []*Record
	env     Environment
	policy  LoadPolicy
	logger  logpkg.Logger
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithLoadPolicy sets how OnLoad treats records already present.
func WithLoadPolicy(p LoadPolicy) TableOption {
	return func(t *Table) { t.policy = p }
}

// WithLogger sets the logger used for skipped sections and dropped records.
func WithLogger(l logpkg.Logger) TableOption {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTable returns an empty table capturing identity from env. A nil env
// uses OSEnvironment.
func NewTable(env Environment, opts ...TableOption) *Table {
	if env == nil {
		env = OSEnvironment{}
	}
	t := &Table{
		records: []*Record{},
		env:     env,
		policy:  LoadAppend,
		logger:  logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Records returns a copy of the records in chronological order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = *r
	}
	return out
}

// DisplayLines renders the records newest first.
func (t *Table) DisplayLines() []string {
	lines := make([]string, 0, len(t.records))
	for i := len(t.records) - 1; i >= 0; i-- {
		lines = append(lines, t.records[i].String())
	}
	return lines
}

// ShouldPersist reports whether the table takes part in a save. Partial saves
// are excluded.
func ShouldPersist(opts WriteOptions) bool {
	return !opts.GeometryOnly && !opts.SelectedObjectsOnly
}

// ShouldPersist is the method form of the package-level predicate.
func (t *Table) ShouldPersist(opts WriteOptions) bool { return ShouldPersist(opts) }

// OnSave appends a record for the current save and writes the whole table.
// It does not check ShouldPersist. Write failures stay in w's sticky error.
func (t *Table) OnSave(w *archive.Writer, _ WriteOptions) {
	t.records = append(t.records, NewRecord(t.env))

	w.WriteChunkVersion(tableMajor, tableMinor)
	w.WriteInt(int32(len(t.records)))
	for _, r := range t.records {
		if err := r.Write(w); err != nil {
			t.logger.Warn("write record", logpkg.Err(err))
			return
		}
	}
}

// OnLoad reads a stored table. Records are merged only when the document is
// opened as the session's own document; imported or referenced documents
// leave the table unchanged.
func (t *Table) OnLoad(r *archive.Reader, opts ReadOptions) {
	merge := opts.mergeAllowed()

	v, err := r.ReadChunkVersion()
	if err != nil {
		t.logger.Warn("read table version", logpkg.Err(err))
		return
	}
	if !v.Accepts(tableMajor, tableMinor) {
		t.logger.Debug("skip table with unsupported version", logpkg.Str("version", v.String()))
		return
	}
	count, err := r.ReadInt()
	if err != nil {
		t.logger.Warn("read record count", logpkg.Err(err))
		return
	}

	var loaded []*Record
	dropped := 0
	clean := true
	for i := int32(0); i < count; i++ {
		rec := &Record{}
		if err := rec.Read(r); err != nil {
			t.logger.Warn("read record",
				logpkg.Int("index", int(i)),
				logpkg.Int64("offset", r.Offset()),
				logpkg.Err(err),
			)
			dropped += int(count - i)
			clean = false
			break
		}
		if !merge {
			dropped++
			continue
		}
		loaded = append(loaded, rec)
	}
	// A damaged chunk never replaces the records already held.
	if merge && clean && t.policy == LoadReplace {
		t.records = loaded
	} else {
		t.records = append(t.records, loaded...)
	}
	if dropped > 0 {
		t.logger.Debug("dropped records on load",
			logpkg.Int("dropped", dropped),
			logpkg.Bool("import", opts.ImportMode),
			logpkg.Bool("reference", opts.ImportReferenceMode),
		)
	}
}

// OnDocumentClosed clears the table.
func (t *Table) OnDocumentClosed() {
	t.records = nil
}
