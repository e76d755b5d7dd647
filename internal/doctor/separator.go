package doctor

import (
	"context"

	"github.com/leeovery/finddups/internal/dedup"
)

// SeparatorCheck warns about key field values that contain the key
// separator. Grouping is unaffected, but printed keys become ambiguous.
type SeparatorCheck struct{}

// Run scans key fields for the target separator, or
// dedup.Separator when none is set.
func (c *SeparatorCheck) Run(ctx context.Context) []CheckResult {
	l, err := getLog(ctx)
	if err != nil {
		return unparsedResult("Separator")
	}

	sep := targetFrom(ctx).Separator
	if sep == "" {
		sep = dedup.Separator
	}

	conflicts := dedup.FindSeparatorConflicts(l.Records, sep, 0)
	if len(conflicts) == 0 {
		return []CheckResult{{
			Name:   "Separator",
			Passed: true,
		}}
	}

	var failures []CheckResult
	for _, conflict := range conflicts {
		if len(failures) == maxReported {
			break
		}
		failures = append(failures, CheckResult{
			Name:       "Separator",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    conflict.Error(),
			Suggestion: "Set a different separator in .finddups.yaml or FINDDUPS_SEPARATOR",
		})
	}
	return truncated("Separator", failures, len(conflicts), "Choose a different separator")
}
