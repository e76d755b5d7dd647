package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/leeovery/finddups/internal/testutil"
)

const sampleLog = "lotw_sample.adi"

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv is a working directory holding a copy of the sample log, with its
// own cache directory and environment.
type testEnv struct {
	dir      string
	cacheDir string
	env      map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	testutil.CopyFixture(t, sampleLog, dir)
	cacheDir := t.TempDir()
	return &testEnv{
		dir:      dir,
		cacheDir: cacheDir,
		env:      map[string]string{"FINDDUPS_CACHE_DIR": cacheDir},
	}
}

// run executes finddups with args and returns stdout, stderr and the exit
// code.
func (e *testEnv) run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout: &stdout,
		Stderr: &stderr,
		Dir:    e.dir,
		Getenv: func(key string) string { return e.env[key] },
		Now:    func() time.Time { return fixedNow },
	}
	code := app.Run(append([]string{"finddups"}, args...))
	return stdout.String(), stderr.String(), code
}
