package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, m.Set(ctx, "a", "1"))
	v, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, m.Set(ctx, "a", "2"))
	v, _ = m.Get(ctx, "a")
	assert.Equal(t, "2", v)

	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, m.Delete(ctx, "a"))
	assert.Zero(t, m.Len())
}

func TestMemoryQuota(t *testing.T) {
	m := NewMemoryWithQuota(10)

	require.NoError(t, m.Set(ctx, "a", "12345"))
	require.NoError(t, m.Set(ctx, "b", "12345"))

	// A third key would push the total past the quota.
	require.Error(t, m.Set(ctx, "c", "x"))
	assert.Equal(t, 2, m.Len())

	// Replacing a key counts only the new value, so a same-size
	// overwrite still fits.
	require.NoError(t, m.Set(ctx, "a", "54321"))

	// Freeing space makes room again.
	require.NoError(t, m.Delete(ctx, "b"))
	require.NoError(t, m.Set(ctx, "c", "x"))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	_, err = f.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, f.Set(ctx, "a", `{"nested":"json"}`))
	require.NoError(t, f.Set(ctx, "b", "plain"))

	// A fresh handle over the same path sees the persisted values.
	reopened, err := NewFile(path)
	require.NoError(t, err)

	v, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"nested":"json"}`, v)

	require.NoError(t, reopened.Delete(ctx, "a"))

	again, err := NewFile(path)
	require.NoError(t, err)
	_, err = again.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	v, err = again.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)
}

func TestFileCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "store.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "a", "1"))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := NewFile(path)
	require.Error(t, err)
}

func TestFileLeavesNoTempBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "a", "1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.json", entries[0].Name())
}
