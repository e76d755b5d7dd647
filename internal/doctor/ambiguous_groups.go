package doctor

import (
	"context"
	"fmt"

	"github.com/leeovery/finddups/internal/dedup"
)

// AmbiguousGroupsCheck warns about duplicate groups that keep more than one
// record. These are contacts confirmed more than once, or a larger group with
// confirmations besides the chosen entry; finddups leaves all of them in the
// output.
type AmbiguousGroupsCheck struct{}

// Run groups the log and reports every ambiguous group.
func (c *AmbiguousGroupsCheck) Run(ctx context.Context) []CheckResult {
	l, err := getLog(ctx)
	if err != nil {
		return unparsedResult("Ambiguous groups")
	}

	res, err := dedup.RunContext(ctx, l.Records, dedup.Options{})
	if err != nil {
		return []CheckResult{{
			Name:     "Ambiguous groups",
			Passed:   false,
			Severity: SeverityWarning,
			Details:  fmt.Sprintf("grouping interrupted: %v", err),
		}}
	}

	var failures []CheckResult
	total := 0
	for _, g := range res.Groups.Duplicated() {
		if !g.Ambiguous() {
			continue
		}
		total++
		if len(failures) < maxReported {
			failures = append(failures, CheckResult{
				Name:       "Ambiguous groups",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    fmt.Sprintf("%s: %d records, %d kept", g.Key, g.Len(), len(g.Kept())),
				Suggestion: "Review these contacts by hand",
			})
		}
	}

	if total > 0 {
		return truncated("Ambiguous groups", failures, total, "Review these contacts by hand")
	}

	return []CheckResult{{
		Name:   "Ambiguous groups",
		Passed: true,
	}}
}
