package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/leeovery/finddups/internal/adif"
)

// TimestampLayout is the ADIF CREATED_TIMESTAMP format.
const TimestampLayout = "20060102 150405"

// Header tags that describe the input log's source and would be wrong on a
// deduplicated copy.
var droppedHeaderTags = []string{"APP_LOTW_NUMREC", "APP_LOTW_LASTQSORX"}

// HeaderOptions describes the run that produces the output log.
type HeaderOptions struct {
	SourceFile string
	Invocation string
	Program    string
	Version    string
	Now        time.Time
	// Mode selects the preamble wording; the zero value reads as filter.
	Mode Mode
}

// FormatTimestamp formats t in UTC as an ADIF CREATED_TIMESTAMP.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// RewriteHeader builds the output header from the input header, which may be
// nil. The new PROGRAMID, PROGRAM_VERSION and CREATED_TIMESTAMP come first,
// followed by the remaining input fields in order. USERDEF1 and USERDEF2
// always name the source file and invocation; USERDEF3 to USERDEF5 receive
// the previous program fields only when the input had them, and any other
// USERDEF fields pass through unchanged.
func RewriteHeader(in *adif.Header, opts HeaderOptions) *adif.Header {
	src := &adif.Header{}
	if in != nil {
		src = in.Clone()
	}

	out := adif.NewHeader(preamble(opts),
		adif.Field{Name: adif.TagProgramID, Value: opts.Program},
		adif.Field{Name: adif.TagProgramVersion, Value: opts.Version},
		adif.Field{Name: adif.TagCreatedTimestamp, Value: FormatTimestamp(opts.Now)},
	)

	moved := []string{adif.TagProgramID, adif.TagProgramVersion, adif.TagCreatedTimestamp}

	skip := map[string]bool{}
	for _, name := range moved {
		skip[name] = true
	}
	for _, name := range droppedHeaderTags {
		skip[name] = true
	}

	for _, f := range src.Fields() {
		if skip[f.Name] {
			continue
		}
		out.SetField(f)
	}

	out.Set(userdef(1), filepath.Base(opts.SourceFile))
	out.Set(userdef(2), opts.Invocation)
	for i, name := range moved {
		if v, ok := src.Get(name); ok {
			out.Set(userdef(i+3), v)
		}
	}
	return out
}

func userdef(n int) string {
	return fmt.Sprintf("USERDEF%d", n)
}

func preamble(opts HeaderOptions) string {
	kind := "duplicate-filtered"
	if opts.Mode == ModeMark {
		kind = "duplicate-marked"
	}
	return fmt.Sprintf("%s %s %s log\nSource: %s\nCreated: %s UTC\n\n",
		opts.Program, opts.Version, kind, filepath.Base(opts.SourceFile), FormatTimestamp(opts.Now))
}
