package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	st, err := NewStorage(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestUpsertAndGet(t *testing.T) {
	st := newStorage(t)

	stored, err := st.UpsertEntry(&Entry{Source: "chat.html", Turns: 2, Content: "<User>\nhi\n</User>"})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, Checksum("<User>\nhi\n</User>"), stored.Checksum)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := st.GetEntry(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Content, got.Content)
	assert.Equal(t, 2, got.Turns)

	byPrefix, err := st.GetEntry(stored.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, stored.ID, byPrefix.ID)
}

func TestUpsertDeduplicatesByChecksum(t *testing.T) {
	st := newStorage(t)

	first, err := st.UpsertEntry(&Entry{Source: "a.html", Content: "same", CreatedAt: time.Unix(100, 0)})
	require.NoError(t, err)

	input := &Entry{Source: "b.html", Content: "same", CreatedAt: time.Unix(200, 0)}
	second, err := st.UpsertEntry(input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, input.ID)
	assert.Empty(t, input.Checksum)
	assert.Equal(t, "b.html", second.Source)
	assert.Equal(t, int64(200), second.CreatedAt.Unix())

	entries, err := st.ListEntries(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListEntriesNewestFirst(t *testing.T) {
	st := newStorage(t)

	for i, content := range []string{"one", "two", "three"} {
		_, err := st.UpsertEntry(&Entry{Source: "s", Content: content, CreatedAt: time.Unix(int64(i+1), 0)})
		require.NoError(t, err)
	}

	entries, err := st.ListEntries(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Content)
	assert.Equal(t, "two", entries[1].Content)

	all, err := st.ListEntries(-1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetEntryErrors(t *testing.T) {
	st := newStorage(t)

	_, err := st.GetEntry("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetEntry("  ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.UpsertEntry(&Entry{ID: "abc-1", Source: "s", Content: "x"})
	require.NoError(t, err)
	_, err = st.UpsertEntry(&Entry{ID: "abc-2", Source: "s", Content: "y"})
	require.NoError(t, err)

	_, err = st.GetEntry("abc")
	assert.ErrorIs(t, err, ErrAmbiguous)

	e, err := st.GetEntry("abc-2")
	require.NoError(t, err)
	assert.Equal(t, "y", e.Content)
}

func TestDeleteAndClean(t *testing.T) {
	st := newStorage(t)

	a, err := st.UpsertEntry(&Entry{Source: "s", Content: "a"})
	require.NoError(t, err)
	_, err = st.UpsertEntry(&Entry{Source: "s", Content: "b"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteEntry(a.ID))
	_, err = st.GetEntry(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.DeleteEntry(a.ID), ErrNotFound)

	require.NoError(t, st.Clean())
	entries, err := st.ListEntries(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
