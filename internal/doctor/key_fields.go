package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/leeovery/finddups/internal/adif"
)

// requiredKeyTags are the key fields every QSO should carry. RX_BAND is
// optional in ADIF and is not listed.
var requiredKeyTags = []string{adif.TagCall, adif.TagQSODate, adif.TagTimeOn, adif.TagBand, adif.TagMode}

// KeyFieldsCheck warns about records missing key fields. Missing fields
// compare as empty strings and may merge unrelated contacts into one group.
type KeyFieldsCheck struct{}

// Run checks every record for the required key fields.
func (c *KeyFieldsCheck) Run(ctx context.Context) []CheckResult {
	l, err := getLog(ctx)
	if err != nil {
		return unparsedResult("Key fields")
	}

	var failures []CheckResult
	total := 0
	for i, r := range l.Records {
		var missing []string
		for _, tag := range requiredKeyTags {
			if !r.Has(tag) {
				missing = append(missing, tag)
			}
		}
		if len(missing) == 0 {
			continue
		}
		total++
		if len(failures) < maxReported {
			failures = append(failures, CheckResult{
				Name:       "Key fields",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    fmt.Sprintf("Record %d: missing %s", i+1, strings.Join(missing, ", ")),
				Suggestion: "Records without these fields may be grouped with unrelated contacts",
			})
		}
	}

	if total > 0 {
		return truncated("Key fields", failures, total, "Records without these fields may be grouped with unrelated contacts")
	}

	return []CheckResult{{
		Name:   "Key fields",
		Passed: true,
	}}
}
