package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeovery/finddups/internal/adif"
	"github.com/leeovery/finddups/internal/dedup"
)

func record(call, timeOn, qsl, freq string) *adif.Record {
	return adif.NewRecord(
		adif.Field{Name: adif.TagCall, Value: call},
		adif.Field{Name: adif.TagQSODate, Value: "20230101"},
		adif.Field{Name: adif.TagTimeOn, Value: timeOn},
		adif.Field{Name: adif.TagBand, Value: "20M"},
		adif.Field{Name: adif.TagMode, Value: "SSB"},
		adif.Field{Name: adif.TagFreq, Value: freq},
		adif.Field{Name: adif.TagQSLRcvd, Value: qsl},
	)
}

// sampleResult has an unconfirmed pair, a singleton and a triple with two
// confirmations.
func sampleResult() *dedup.Result {
	return dedup.Run([]*adif.Record{
		record("W1AKI", "143000", "N", "14.2345"),
		record("K1ABC", "0900", "N", "7.030"),
		record("W1AKI", "1430", "N", "14.234"),
		record("N0CALL", "1200", "Y", "21.200"),
		record("N0CALL", "1200", "Y", "21.200"),
		record("N0CALL", "1200", "N", "21.2"),
	})
}

var sampleRaw = []byte("sample log contents")

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewCache(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, dbPath
}

func TestNewCache(t *testing.T) {
	t.Run("it creates the groups, qsos and metadata tables", func(t *testing.T) {
		c, _ := newTestCache(t)

		rows, err := c.DB().Query("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
		require.NoError(t, err)
		defer rows.Close()

		var tables []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			tables = append(tables, name)
		}
		assert.Equal(t, []string{"metadata", "qso_groups", "qsos"}, tables)
	})
}

func TestRebuild(t *testing.T) {
	t.Run("it stores every group and qso", func(t *testing.T) {
		c, _ := newTestCache(t)

		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		var groups, qsos int
		require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM qso_groups").Scan(&groups))
		require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM qsos").Scan(&qsos))
		assert.Equal(t, 3, groups)
		assert.Equal(t, 6, qsos)
	})

	t.Run("it stores the log hash", func(t *testing.T) {
		c, _ := newTestCache(t)

		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		var hash string
		require.NoError(t, c.DB().QueryRow("SELECT value FROM metadata WHERE key = 'log_hash'").Scan(&hash))
		assert.Equal(t, Hash(sampleRaw), hash)
		assert.Len(t, hash, 16)
	})

	t.Run("it replaces previous rows", func(t *testing.T) {
		c, _ := newTestCache(t)
		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		require.NoError(t, c.Rebuild(dedup.Run([]*adif.Record{record("W1AKI", "1430", "N", "")}), []byte("other")))

		var qsos int
		require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM qsos").Scan(&qsos))
		assert.Equal(t, 1, qsos)
	})

	t.Run("it handles an empty result", func(t *testing.T) {
		c, _ := newTestCache(t)

		require.NoError(t, c.Rebuild(dedup.Run(nil), nil))

		fresh, err := c.IsFresh(nil)
		require.NoError(t, err)
		assert.True(t, fresh)

		stats, err := ReadStats(context.Background(), c.DB())
		require.NoError(t, err)
		assert.Equal(t, dedup.Stats{}, stats)
	})
}

func TestIsFresh(t *testing.T) {
	t.Run("it treats a cache without a hash as stale", func(t *testing.T) {
		c, _ := newTestCache(t)

		fresh, err := c.IsFresh(sampleRaw)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("it compares the stored hash with the log", func(t *testing.T) {
		c, _ := newTestCache(t)
		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		fresh, err := c.IsFresh(sampleRaw)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = c.IsFresh([]byte("changed"))
		require.NoError(t, err)
		assert.False(t, fresh)
	})
}

func TestEnsureFresh(t *testing.T) {
	counting := func(n *int) BuildFunc {
		return func() (*dedup.Result, error) {
			*n++
			return sampleResult(), nil
		}
	}

	t.Run("it creates a missing cache", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		builds := 0

		c, status, err := EnsureFresh(dbPath, sampleRaw, counting(&builds))
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, StatusRecreated, status)
		assert.Equal(t, 1, builds)
		assert.FileExists(t, dbPath)
	})

	t.Run("it skips the build when the cache is fresh", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		builds := 0
		c, _, err := EnsureFresh(dbPath, sampleRaw, counting(&builds))
		require.NoError(t, err)
		c.Close()

		c, status, err := EnsureFresh(dbPath, sampleRaw, counting(&builds))
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, StatusFresh, status)
		assert.Equal(t, 1, builds)
	})

	t.Run("it rebuilds a stale cache", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		builds := 0
		c, _, err := EnsureFresh(dbPath, sampleRaw, counting(&builds))
		require.NoError(t, err)
		c.Close()

		c, status, err := EnsureFresh(dbPath, []byte("edited"), counting(&builds))
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, StatusRebuilt, status)
		assert.Equal(t, 2, builds)
	})

	t.Run("it recreates a corrupted cache", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		require.NoError(t, os.WriteFile(dbPath, []byte("not a database at all, just some text padding it out"), 0644))
		builds := 0

		c, status, err := EnsureFresh(dbPath, sampleRaw, counting(&builds))
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, StatusRecreated, status)
		stats, err := ReadStats(context.Background(), c.DB())
		require.NoError(t, err)
		assert.Equal(t, 6, stats.Records)
	})

	t.Run("it returns the build error", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		boom := errors.New("boom")

		_, _, err := EnsureFresh(dbPath, sampleRaw, func() (*dedup.Result, error) { return nil, boom })

		assert.ErrorIs(t, err, boom)
	})
}

func TestOpen(t *testing.T) {
	t.Run("it does not create a missing cache", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		_, err := Open(dbPath)

		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, dbPath)
	})
}

func TestReadStats(t *testing.T) {
	t.Run("it matches the engine's stats", func(t *testing.T) {
		c, _ := newTestCache(t)
		res := sampleResult()
		require.NoError(t, c.Rebuild(res, sampleRaw))

		stats, err := ReadStats(context.Background(), c.DB())
		require.NoError(t, err)

		assert.Equal(t, res.Stats, stats)
	})
}

func TestReadGroups(t *testing.T) {
	t.Run("it returns duplicate groups with their members", func(t *testing.T) {
		c, _ := newTestCache(t)
		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		groups, err := ReadGroups(context.Background(), c.DB(), true)
		require.NoError(t, err)

		require.Len(t, groups, 2)
		pair := groups[0]
		assert.Equal(t, "W1AKI", pair.Key.Call)
		assert.Equal(t, "1430", pair.Key.TimeOn)
		assert.Equal(t, 1, pair.Choice)
		require.Len(t, pair.QSOs, 2)
		assert.Equal(t, 0, pair.QSOs[0].Index)
		assert.Equal(t, "143000", pair.QSOs[0].QSO.TimeOn)
		assert.False(t, pair.QSOs[0].Keep)
		assert.True(t, pair.QSOs[1].Keep)
		assert.False(t, pair.Ambiguous())

		triple := groups[1]
		assert.Equal(t, 2, triple.Confirmed)
		assert.Equal(t, 2, triple.Choice)
		assert.Equal(t, 3, triple.Kept)
		assert.True(t, triple.Ambiguous())
	})

	t.Run("it includes singletons when asked", func(t *testing.T) {
		c, _ := newTestCache(t)
		require.NoError(t, c.Rebuild(sampleResult(), sampleRaw))

		groups, err := ReadGroups(context.Background(), c.DB(), false)
		require.NoError(t, err)

		require.Len(t, groups, 3)
		assert.Equal(t, "K1ABC", groups[1].Key.Call)
		assert.Equal(t, 0, groups[1].Choice)
	})
}
