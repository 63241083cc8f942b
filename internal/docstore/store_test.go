package docstore

import (
	"context"
	"errors"
	"testing"

	pebblestore "github.com/rzbill/raccoon/internal/storage/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, max int) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Options{MaxRevisions: max})
}

func TestSaveAndLoadLatest(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	r1, err := s.Save(ctx, "bracket", map[string][]byte{"raccoon": []byte("one")})
	require.NoError(t, err)
	r2, err := s.Save(ctx, "bracket", map[string][]byte{"raccoon": []byte("two"), "other": []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, -1, r1.Compare(r2))

	data, ok, err := s.LoadChunk("bracket", "raccoon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(data))

	meta, err := s.Meta("bracket")
	require.NoError(t, err)
	assert.Equal(t, "bracket", meta.Name)
	assert.Equal(t, 2, meta.Revisions)
	latest, err := meta.LatestID()
	require.NoError(t, err)
	assert.Equal(t, r2, latest)
	assert.LessOrEqual(t, meta.CreatedAtMs, meta.UpdatedAtMs)
}

func TestLoadChunkMissingPlugin(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	_, err := s.Save(ctx, "bracket", map[string][]byte{"raccoon": []byte("one")})
	require.NoError(t, err)
	// a partial save without our chunk hides older data
	_, err = s.Save(ctx, "bracket", nil)
	require.NoError(t, err)

	_, ok, err := s.LoadChunk("bracket", "raccoon")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownDocument(t *testing.T) {
	s := newTestStore(t, 0)
	_, _, err := s.LoadChunk("nope", "raccoon")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Revisions("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidNames(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	_, err := s.Save(ctx, "a/b", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.Save(ctx, "ok", map[string][]byte{"": nil})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.Meta("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRevisionsListing(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	r1, err := s.Save(ctx, "bracket", map[string][]byte{"raccoon": []byte("abc"), "alpha": []byte("z")})
	require.NoError(t, err)
	r2, err := s.Save(ctx, "bracket", nil)
	require.NoError(t, err)
	// another document sharing a name prefix stays separate
	_, err = s.Save(ctx, "bracket2", map[string][]byte{"raccoon": []byte("q")})
	require.NoError(t, err)

	revs, err := s.Revisions("bracket")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, r1, revs[0].ID)
	assert.Equal(t, []string{"alpha", "raccoon"}, revs[0].Plugins)
	assert.Equal(t, 4, revs[0].Bytes)
	assert.Equal(t, r2, revs[1].ID)
	assert.Empty(t, revs[1].Plugins)
}

func TestMaxRevisionsTrimsOldest(t *testing.T) {
	s := newTestStore(t, 2)
	ctx := context.Background()
	var last []string
	for _, v := range []string{"a", "b", "c", "d"} {
		_, err := s.Save(ctx, "bracket", map[string][]byte{"raccoon": []byte(v)})
		require.NoError(t, err)
		last = append(last, v)
	}
	revs, err := s.Revisions("bracket")
	require.NoError(t, err)
	assert.Len(t, revs, 2)

	meta, err := s.Meta("bracket")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Revisions)

	data, ok, err := s.LoadChunk("bracket", "raccoon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, last[len(last)-1], string(data))
}

func TestMetaCodecRoundtrip(t *testing.T) {
	in := Meta{Name: "bracket", CreatedAtMs: 1, UpdatedAtMs: 2, Revisions: 3, Latest: make([]byte, 16)}
	b, err := encodeMeta(in)
	require.NoError(t, err)
	out, err := decodeMeta(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("doc0"), prefixEnd([]byte("doc/")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff}))
}
