package doctor

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// FormatReport writes a human-readable representation of the DiagnosticReport
// to the provided writer. Each result is formatted as a pass (✓) or fail (✗)
// line, followed by a summary count of issues. With colored set, marks are
// green for passes, red for errors and yellow for warnings.
func FormatReport(w io.Writer, report DiagnosticReport, colored bool) {
	pass := mark(color.FgGreen, colored)
	fail := mark(color.FgRed, colored)
	warn := mark(color.FgYellow, colored)

	issueCount := 0

	for _, r := range report.Results {
		if r.Passed {
			fmt.Fprintf(w, "%s %s: OK\n", pass("✓"), r.Name)
			continue
		}
		sym := fail("✗")
		if r.Severity == SeverityWarning {
			sym = warn("✗")
		}
		fmt.Fprintf(w, "%s %s: %s\n", sym, r.Name, r.Details)
		if r.Suggestion != "" {
			fmt.Fprintf(w, "  → %s\n", r.Suggestion)
		}
		issueCount++
	}

	if len(report.Results) > 0 {
		fmt.Fprint(w, "\n")
	}

	switch issueCount {
	case 0:
		fmt.Fprint(w, "No issues found.\n")
	case 1:
		fmt.Fprint(w, "1 issue found.\n")
	default:
		fmt.Fprintf(w, "%d issues found.\n", issueCount)
	}
}

func mark(attr color.Attribute, colored bool) func(a ...interface{}) string {
	if !colored {
		return fmt.Sprint
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.SprintFunc()
}

// ExitCode returns the process exit code for a diagnostic run.
// It returns 0 when the report has no error-severity failures (warnings allowed),
// and 1 when any error-severity failure exists.
func ExitCode(report DiagnosticReport) int {
	if report.HasErrors() {
		return 1
	}
	return 0
}
