// Package testutil provides shared test helpers for the finddups project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FindRepoRoot walks up from the current working directory to find
// the repository root (the directory containing go.mod).
func FindRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("cannot get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repository root (no go.mod found)")
		}
		dir = parent
	}
}

// Fixture returns the path of a file under the repository's testdata
// directory.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(FindRepoRoot(t), "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	return path
}

// CopyFixture copies a testdata file into dir and returns the new path, so
// tests can lock, hash and overwrite it freely.
func CopyFixture(t *testing.T, name, dir string) string {
	t.Helper()
	data, err := os.ReadFile(Fixture(t, name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatalf("copying fixture %s: %v", name, err)
	}
	return dst
}
