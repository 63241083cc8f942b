package host

import (
	"context"
	"testing"
	"time"

	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/docstore"
	pebblestore "github.com/rzbill/raccoon/internal/storage/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, policy audit.LoadPolicy) (*Host, *docstore.Store) {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := docstore.New(db, docstore.Options{})

	at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	env := audit.FixedEnvironment{
		Host:      "BUILD01",
		Principal: `corp\alice`,
		Clock: func() time.Time {
			at = at.Add(time.Minute)
			return at
		},
	}
	return New(store, Options{PluginID: "raccoon", LoadPolicy: policy, Env: env}), store
}

func saveAndClose(t *testing.T, h *Host, doc string, times int) {
	t.Helper()
	ctx := context.Background()
	s, err := h.Open(ctx, doc, audit.ReadOptions{})
	require.NoError(t, err)
	for i := 0; i < times; i++ {
		require.NoError(t, s.Save(ctx, audit.WriteOptions{}))
	}
	require.NoError(t, s.Close())
}

func TestSavesAccumulateAcrossSessions(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	saveAndClose(t, h, "bracket", 2)
	saveAndClose(t, h, "bracket", 1)

	s, err := h.Open(context.Background(), "bracket", audit.ReadOptions{})
	require.NoError(t, err)
	defer s.Close()
	lines := s.Table().DisplayLines()
	require.Len(t, lines, 3)
	assert.Equal(t, `2024-03-01 02:03 PM,BUILD01,corp\alice`, lines[0])
	assert.Equal(t, `2024-03-01 02:01 PM,BUILD01,corp\alice`, lines[2])
}

func TestNewDocumentOpensEmpty(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	s, err := h.Open(context.Background(), "fresh", audit.ReadOptions{})
	require.NoError(t, err)
	assert.Zero(t, s.Table().Len())
	assert.Equal(t, []string{"fresh"}, h.Documents())
	require.NoError(t, s.Close())
	assert.Empty(t, h.Documents())
}

func TestPartialSaveOnNewDocumentWritesNoChunk(t *testing.T) {
	h, store := newTestHost(t, audit.LoadAppend)
	ctx := context.Background()
	s, err := h.Open(ctx, "bracket", audit.ReadOptions{})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, audit.WriteOptions{GeometryOnly: true}))
	assert.Zero(t, s.Table().Len())

	_, ok, err := store.LoadChunk("bracket", "raccoon")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, audit.WriteOptions{SelectedObjectsOnly: true}))
	require.NoError(t, s.Save(ctx, audit.WriteOptions{}))
	assert.Equal(t, 1, s.Table().Len())
	require.NoError(t, s.Close())
}

func TestPartialSaveKeepsPersistedTrail(t *testing.T) {
	h, store := newTestHost(t, audit.LoadAppend)
	ctx := context.Background()
	saveAndClose(t, h, "bracket", 3)
	before, ok, err := store.LoadChunk("bracket", "raccoon")
	require.NoError(t, err)
	require.True(t, ok)

	for _, wo := range []audit.WriteOptions{{GeometryOnly: true}, {SelectedObjectsOnly: true}} {
		s, err := h.Open(ctx, "bracket", audit.ReadOptions{})
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, wo))
		assert.Equal(t, 3, s.Table().Len())
		require.NoError(t, s.Close())

		after, ok, err := store.LoadChunk("bracket", "raccoon")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, before, after)
	}

	s, err := h.Open(ctx, "bracket", audit.ReadOptions{})
	require.NoError(t, err)
	defer s.Close()
	lines := s.Table().DisplayLines()
	require.Len(t, lines, 3)
	assert.Equal(t, `2024-03-01 02:03 PM,BUILD01,corp\alice`, lines[0])

	revs, err := store.Revisions("bracket")
	require.NoError(t, err)
	assert.Len(t, revs, 5)
}

func TestCloseClearsTableAndRunsHandlers(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	ctx := context.Background()
	s, err := h.Open(ctx, "bracket", audit.ReadOptions{})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, audit.WriteOptions{}))

	var seen []string
	s.OnClose(func(s *Session) { seen = append(seen, s.Document) })
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"bracket"}, seen)
	assert.Empty(t, s.Table().DisplayLines())
	_, ok := h.Session("bracket")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Close(), ErrSessionClosed)
	assert.ErrorIs(t, s.Save(ctx, audit.WriteOptions{}), ErrSessionClosed)
}

func TestImportDoesNotMerge(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	saveAndClose(t, h, "library", 3)

	ctx := context.Background()
	s, err := h.Open(ctx, "assembly", audit.ReadOptions{})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Save(ctx, audit.WriteOptions{}))

	require.NoError(t, s.Import(ctx, "library", false))
	require.NoError(t, s.Import(ctx, "library", true))
	assert.Equal(t, 1, s.Table().Len())
}

func TestOpenWithImportModeSuppressesRecords(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	saveAndClose(t, h, "library", 2)

	s, err := h.Open(context.Background(), "library", audit.ReadOptions{ImportReferenceMode: true})
	require.NoError(t, err)
	defer s.Close()
	assert.Zero(t, s.Table().Len())
}

func TestDoubleOpenRejected(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	ctx := context.Background()
	s, err := h.Open(ctx, "bracket", audit.ReadOptions{})
	require.NoError(t, err)
	_, err = h.Open(ctx, "bracket", audit.ReadOptions{})
	assert.ErrorIs(t, err, ErrAlreadyOpen)

	got, ok := h.Session("bracket")
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)
	require.NoError(t, h.CloseAll())
	assert.Empty(t, h.Documents())
}

func TestInvalidDocumentName(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	_, err := h.Open(context.Background(), "../etc", audit.ReadOptions{})
	assert.ErrorIs(t, err, docstore.ErrInvalidName)
}

func TestSessionsAreIndependent(t *testing.T) {
	h, _ := newTestHost(t, audit.LoadAppend)
	ctx := context.Background()
	a, err := h.Open(ctx, "a", audit.ReadOptions{})
	require.NoError(t, err)
	b, err := h.Open(ctx, "b", audit.ReadOptions{})
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, audit.WriteOptions{}))
	require.NoError(t, a.Save(ctx, audit.WriteOptions{}))
	require.NoError(t, b.Save(ctx, audit.WriteOptions{}))
	assert.Equal(t, 2, a.Table().Len())
	assert.Equal(t, 1, b.Table().Len())
	assert.NotEqual(t, a.ID, b.ID)
	require.NoError(t, h.CloseAll())
}
