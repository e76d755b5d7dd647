package doctor

import (
	"context"
	"fmt"
	"regexp"

	"github.com/leeovery/finddups/internal/adif"
)

var timeOnRegex = regexp.MustCompile(`^([0-9]{4}|[0-9]{6})$`)

// TimeFormatCheck warns about TIME_ON values that are neither HHMM nor
// HHMMSS. Such values are grouped verbatim, so the same contact logged in
// two forms is not recognized as a duplicate.
type TimeFormatCheck struct{}

// Run checks TIME_ON on every record that has one.
func (c *TimeFormatCheck) Run(ctx context.Context) []CheckResult {
	l, err := getLog(ctx)
	if err != nil {
		return unparsedResult("Time format")
	}

	var failures []CheckResult
	total := 0
	for i, r := range l.Records {
		v, ok := r.Get(adif.TagTimeOn)
		if !ok || timeOnRegex.MatchString(v) {
			continue
		}
		total++
		if len(failures) < maxReported {
			failures = append(failures, CheckResult{
				Name:       "Time format",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    fmt.Sprintf("Record %d: TIME_ON %q is not HHMM or HHMMSS", i+1, v),
				Suggestion: "Correct the time in your logger and re-export",
			})
		}
	}

	if total > 0 {
		return truncated("Time format", failures, total, "Correct the times in your logger and re-export")
	}

	return []CheckResult{{
		Name:   "Time format",
		Passed: true,
	}}
}
