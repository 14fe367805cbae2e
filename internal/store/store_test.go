package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendTests runs the common suite against any Backend implementation.
func backendTests(t *testing.T, b Backend) {
	t.Helper()

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := b.Read("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("WriteAndRead", func(t *testing.T) {
		require.NoError(t, b.Write("token", "abc123"))
		got, err := b.Read("token")
		require.NoError(t, err)
		assert.Equal(t, "abc123", got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, b.Write("token", "v1"))
		require.NoError(t, b.Write("token", "v2"))
		got, err := b.Read("token")
		require.NoError(t, err)
		assert.Equal(t, "v2", got)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, b.Write("token", "gone-soon"))
		require.NoError(t, b.Remove("token"))
		_, err := b.Read("token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		assert.NoError(t, b.Remove("never-existed"))
		assert.NoError(t, b.Remove("never-existed"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		require.NoError(t, b.Write("a", "1"))
		require.NoError(t, b.Write("b", "2"))
		require.NoError(t, b.Remove("a"))
		got, err := b.Read("b")
		require.NoError(t, err)
		assert.Equal(t, "2", got)
	})
}

func TestMemory(t *testing.T) {
	backendTests(t, NewMemory())
}

func TestBolt(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "session.bolt"))
	require.NoError(t, err)
	defer b.Close()
	backendTests(t, b)
}

func TestBolt_RemoveBeforeAnyWrite(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "session.bolt"))
	require.NoError(t, err)
	defer b.Close()

	assert.NoError(t, b.Remove("token"))
}

func TestBolt_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bolt")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Write("token", "persisted"))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Read("token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
