package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leeovery/finddups/internal/storage/sqlite"
)

// CacheCheck verifies that the analysis cache is in sync with the log by
// comparing content hashes. It opens the cache read-only and never modifies
// it.
type CacheCheck struct{}

// Run compares the log's hash with the one stored in the cache.
func (c *CacheCheck) Run(ctx context.Context) []CheckResult {
	t := targetFrom(ctx)
	raw, err := os.ReadFile(t.LogPath)
	if err != nil {
		return []CheckResult{{
			Name:       "Cache",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    "log unreadable, cache not checked",
			Suggestion: "Check the log path",
		}}
	}

	cachePath := t.CachePath
	if _, err := os.Stat(cachePath); cachePath == "" || os.IsNotExist(err) {
		return []CheckResult{{
			Name:       "Cache",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    "cache has not been built",
			Suggestion: "Run `finddups rebuild` to build the cache",
		}}
	}

	stored, err := queryStoredHash(ctx, cachePath)
	if err != nil || stored != sqlite.Hash(raw) {
		return []CheckResult{{
			Name:       "Cache",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    "cache is stale, hash mismatch between log and cache",
			Suggestion: "Run `finddups rebuild` to refresh cache",
		}}
	}

	return []CheckResult{{
		Name:   "Cache",
		Passed: true,
	}}
}

// queryStoredHash opens the cache read-only and returns the stored log hash.
func queryStoredHash(ctx context.Context, cachePath string) (string, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", cachePath))
	if err != nil {
		return "", fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	var stored string
	err = db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'log_hash'").Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("failed to query log_hash: %w", err)
	}
	return stored, nil
}
