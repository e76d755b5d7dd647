package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leeovery/finddups/internal/adif"
)

// AdifSyntaxCheck verifies that the log parses as ADI.
type AdifSyntaxCheck struct{}

// Run reads and parses the target log file.
func (c *AdifSyntaxCheck) Run(ctx context.Context) []CheckResult {
	data, err := os.ReadFile(targetFrom(ctx).LogPath)
	if err != nil {
		return []CheckResult{{
			Name:       "ADIF syntax",
			Passed:     false,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("log not found or unreadable: %v", err),
			Suggestion: "Check the log path",
		}}
	}

	if _, err := adif.Parse(data); err != nil {
		details := err.Error()
		var pe *adif.ParseError
		if errors.As(err, &pe) {
			line, col := position(data, pe.Offset)
			details = fmt.Sprintf("Line %d, column %d: %s", line, col, pe.Msg)
		}
		return []CheckResult{{
			Name:       "ADIF syntax",
			Passed:     false,
			Severity:   SeverityError,
			Details:    details,
			Suggestion: "Manual fix required",
		}}
	}

	return []CheckResult{{
		Name:   "ADIF syntax",
		Passed: true,
	}}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
