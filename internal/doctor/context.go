package doctor

import (
	"context"
	"fmt"

	"github.com/leeovery/finddups/internal/adif"
)

// Target names the log under diagnosis and the settings the checks read.
type Target struct {
	// LogPath is the ADI file the checks examine.
	LogPath string
	// Log is the already parsed log, or nil to have checks parse LogPath.
	Log *adif.Log
	// Separator joins printed group keys; empty means dedup.Separator.
	Separator string
	// CachePath is the analysis cache; empty when it could not be resolved.
	CachePath string
}

type targetKey struct{}

// maxReported caps the per-record results a single check emits.
const maxReported = 10

// WithTarget returns a context carrying t for the checks to read.
func WithTarget(ctx context.Context, t Target) context.Context {
	return context.WithValue(ctx, targetKey{}, t)
}

func targetFrom(ctx context.Context) Target {
	t, _ := ctx.Value(targetKey{}).(Target)
	return t
}

// getLog returns the target's log, parsing the log file when none was
// provided.
func getLog(ctx context.Context) (*adif.Log, error) {
	t := targetFrom(ctx)
	if t.Log != nil {
		return t.Log, nil
	}
	return adif.ReadFile(t.LogPath)
}

// unparsedResult is returned by content checks when the log cannot be
// parsed; the syntax check reports the cause.
func unparsedResult(name string) []CheckResult {
	return []CheckResult{{
		Name:       name,
		Passed:     false,
		Severity:   SeverityWarning,
		Details:    "skipped, log could not be parsed",
		Suggestion: "Fix the ADIF syntax error first",
	}}
}

// truncated appends a summary result when more than maxReported failures
// were found.
func truncated(name string, failures []CheckResult, total int, suggestion string) []CheckResult {
	if total <= len(failures) {
		return failures
	}
	return append(failures, CheckResult{
		Name:       name,
		Passed:     false,
		Severity:   SeverityWarning,
		Details:    fmt.Sprintf("%d more records not shown", total-len(failures)),
		Suggestion: suggestion,
	})
}
