package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Run("seeds default record on first use", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.json")

		c, err := NewCounter(path, nil)
		require.NoError(t, err)

		rec := c.Snapshot()
		assert.Equal(t, 0, rec.TotalQueries)
		assert.Equal(t, 12, rec.ActiveStudents)

		_, err = os.Stat(path)
		assert.NoError(t, err, "stats file should exist after seeding")
	})

	t.Run("increment persists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.json")

		c, err := NewCounter(path, nil)
		require.NoError(t, err)

		c.Increment()
		c.Increment()
		c.Increment()
		assert.Equal(t, 3, c.Snapshot().TotalQueries)
	})

	t.Run("count survives restart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.json")

		c1, err := NewCounter(path, nil)
		require.NoError(t, err)
		c1.Increment()
		c1.Increment()

		c2, err := NewCounter(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, c2.Snapshot().TotalQueries)

		c2.Increment()
		assert.Equal(t, 3, c2.Snapshot().TotalQueries)
	})

	t.Run("corrupt file falls back to default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		c, err := NewCounter(path, nil)
		require.NoError(t, err)

		rec := c.Snapshot()
		assert.Equal(t, 0, rec.TotalQueries)
		assert.Equal(t, 12, rec.ActiveStudents)

		// Increment recovers the file.
		c.Increment()
		assert.Equal(t, 1, c.Snapshot().TotalQueries)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "stats.json")

		c, err := NewCounter(path, nil)
		require.NoError(t, err)
		c.Increment()
		assert.Equal(t, 1, c.Snapshot().TotalQueries)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := NewCounter("", nil)
		assert.Error(t, err)
	})
}
