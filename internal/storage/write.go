package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leeovery/finddups/internal/adif"
)

// WriteLog writes l to path under an exclusive lock for that path, using
// the atomic write pattern: write to a temp file in the same directory,
// fsync, then rename over path.
func (s *Store) WriteLog(ctx context.Context, path string, l *adif.Log) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	unlock, err := s.acquire(ctx, filepath.Join(s.cacheDir, cacheName(abs)+".lock"), true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := WriteFileAtomic(abs, l); err != nil {
		return err
	}
	s.logger.Debug("wrote log", "path", abs, "records", len(l.Records))
	return nil
}

// WriteFileAtomic encodes l into path via a temp file and rename.
func WriteFileAtomic(path string, l *adif.Log) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmpFile, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := adif.Encode(tmpFile, l); err != nil {
		return fmt.Errorf("failed to write %s: %w", base, err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
