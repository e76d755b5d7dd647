// Package storage wraps one ADIF log with file locking and the SQLite
// analysis cache.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"

	"github.com/leeovery/finddups/internal/adif"
	"github.com/leeovery/finddups/internal/dedup"
	"github.com/leeovery/finddups/internal/storage/sqlite"
)

const defaultLockTimeout = 5 * time.Second

// ErrLockTimeout is returned when a lock cannot be acquired in time.
var ErrLockTimeout = errors.New("could not acquire lock")

// Logger receives debug output of internal operations and warnings about
// cache problems that do not fail the operation.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Warn(interface{}, ...interface{})  {}

// Store reads one ADIF log under a shared lock and keeps its analysis cached
// in SQLite. Lock files and the cache live in the cache directory, never
// next to the log.
type Store struct {
	logPath     string
	cacheDir    string
	cachePath   string
	lockPath    string
	lockTimeout time.Duration
	shards      int
	logger      Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets a custom lock timeout duration. The default is 5 seconds.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// WithCacheDir sets the directory for lock files and the cache. The default
// is finddups under os.UserCacheDir.
func WithCacheDir(dir string) Option {
	return func(s *Store) {
		s.cacheDir = dir
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithShards sets the number of grouping shards used when the cache is
// rebuilt.
func WithShards(n int) Option {
	return func(s *Store) {
		s.shards = n
	}
}

// DefaultCacheDir returns finddups under the user cache directory.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(dir, "finddups"), nil
}

// NewStore creates a Store for the ADIF log at logPath. The log must exist
// and be a regular file.
func NewStore(logPath string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(logPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", logPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("log file not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path is a directory: %s", logPath)
	}

	s := &Store{
		logPath:     abs,
		lockTimeout: defaultLockTimeout,
		logger:      nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cacheDir == "" {
		if s.cacheDir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	name := cacheName(abs)
	s.cachePath = filepath.Join(s.cacheDir, name+".db")
	s.lockPath = filepath.Join(s.cacheDir, name+".lock")
	return s, nil
}

// cacheName derives the cache and lock file base name from an absolute path.
func cacheName(abs string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(abs))
}

// LogPath returns the absolute path of the log.
func (s *Store) LogPath() string {
	return s.logPath
}

// CachePath returns the path of the SQLite cache.
func (s *Store) CachePath() string {
	return s.cachePath
}

// Load reads and parses the log under a shared lock.
func (s *Store) Load(ctx context.Context) (*adif.Log, error) {
	unlock, err := s.acquire(ctx, s.lockPath, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, l, err := s.read()
	return l, err
}

// Analyze reads the log under a shared lock and runs the engine on it. The
// cache is refreshed from the result; cache failures are logged, not
// returned.
func (s *Store) Analyze(ctx context.Context) (*adif.Log, *dedup.Result, error) {
	unlock, err := s.acquire(ctx, s.lockPath, false)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	raw, l, err := s.read()
	if err != nil {
		return nil, nil, err
	}

	res, err := s.run(ctx, l)
	if err != nil {
		return nil, nil, err
	}

	s.updateCache(res, raw)
	return l, res, nil
}

// Query runs fn against the cache under a shared lock, rebuilding the cache
// first if it does not match the log.
func (s *Store) Query(ctx context.Context, fn func(db *sql.DB) error) error {
	unlock, err := s.acquire(ctx, s.lockPath, false)
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := os.ReadFile(s.logPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.logPath, err)
	}

	s.logger.Debug("cache: checking freshness", "path", s.cachePath)
	cache, status, err := sqlite.EnsureFresh(s.cachePath, raw, func() (*dedup.Result, error) {
		l, err := adif.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.logPath, err)
		}
		return s.run(ctx, l)
	})
	if err != nil {
		return err
	}
	defer cache.Close()
	s.logger.Debug("cache: ready", "status", status)

	return fn(cache.DB())
}

// Rebuild recomputes the analysis and recreates the cache under an exclusive
// lock, regardless of freshness.
func (s *Store) Rebuild(ctx context.Context) (*dedup.Result, error) {
	unlock, err := s.acquire(ctx, s.lockPath, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	raw, l, err := s.read()
	if err != nil {
		return nil, err
	}

	res, err := s.run(ctx, l)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cache: recreating", "path", s.cachePath)
	cache, err := sqlite.Recreate(s.cachePath, res, raw)
	if err != nil {
		return nil, err
	}
	return res, cache.Close()
}

func (s *Store) read() ([]byte, *adif.Log, error) {
	raw, err := os.ReadFile(s.logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", s.logPath, err)
	}
	l, err := adif.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", s.logPath, err)
	}
	s.logger.Debug("read log", "records", len(l.Records), "bytes", len(raw))
	return raw, l, nil
}

func (s *Store) run(ctx context.Context, l *adif.Log) (*dedup.Result, error) {
	res, err := dedup.RunContext(ctx, l.Records, dedup.Options{Shards: s.shards})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("grouped records", "groups", res.Stats.Groups, "duplicates", res.Stats.DuplicateGroups)
	return res, nil
}

// updateCache writes res to the cache. The log is the source of truth, so a
// failure only costs a rebuild on the next query.
func (s *Store) updateCache(res *dedup.Result, raw []byte) {
	cache, err := sqlite.Open(s.cachePath)
	if err != nil {
		cache, err = sqlite.Recreate(s.cachePath, res, raw)
		if err != nil {
			s.logger.Warn("cache update failed", "err", err)
			return
		}
		cache.Close()
		return
	}
	defer cache.Close()

	if fresh, err := cache.IsFresh(raw); err == nil && fresh {
		return
	}
	if err := cache.Rebuild(res, raw); err != nil {
		s.logger.Warn("cache update failed", "err", err)
	}
}

// acquire takes a shared or exclusive lock on path, retrying until the lock
// timeout or ctx expires. The returned function releases it.
func (s *Store) acquire(ctx context.Context, path string, exclusive bool) (unlock func(), err error) {
	fl := flock.New(path)
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)

	kind := "shared"
	var locked bool
	if exclusive {
		kind = "exclusive"
		locked, err = fl.TryLockContext(ctx, 10*time.Millisecond)
	} else {
		locked, err = fl.TryRLockContext(ctx, 10*time.Millisecond)
	}
	if !locked || err != nil {
		cancel()
		return nil, fmt.Errorf("%w on %s - another process may be using finddups", ErrLockTimeout, path)
	}
	s.logger.Debug("lock acquired", "kind", kind, "path", path)

	return func() {
		_ = fl.Unlock()
		cancel()
		s.logger.Debug("lock released", "kind", kind, "path", path)
	}, nil
}
