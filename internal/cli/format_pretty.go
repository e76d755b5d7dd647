package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/leeovery/finddups/internal/dedup"
)

// PrettyFormatter implements the Formatter interface for human-readable
// terminal output with aligned columns. Colored adds ANSI colors to keep
// marks and warnings.
type PrettyFormatter struct {
	Colored bool
}

// FormatStats renders statistics as aligned label/value lines.
func (f *PrettyFormatter) FormatStats(s dedup.Stats) string {
	rows := []struct {
		label string
		value int
	}{
		{"Records:", s.Records},
		{"Groups:", s.Groups},
		{"Singletons:", s.Singletons},
		{"Duplicate groups:", s.DuplicateGroups},
		{"Kept:", s.Kept},
		{"Discarded:", s.Discarded},
		{"Ambiguous:", s.Ambiguous},
		{"Largest group:", s.LargestGroup},
	}

	valueW := 0
	for _, r := range rows {
		valueW = max(valueW, len(humanize.Comma(int64(r.value))))
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-18s%*s\n", r.label, valueW, humanize.Comma(int64(r.value)))
	}
	if s.Ambiguous > 0 {
		b.WriteString("\n")
		b.WriteString(f.paint(color.FgYellow, fmt.Sprintf("%s kept more than one record; run `finddups groups` to review.",
			plural(s.Ambiguous, "group", "groups"))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatGroups renders each group as a heading line followed by its members
// in aligned columns. Kept members are marked with *.
func (f *PrettyFormatter) FormatGroups(groups []GroupData) string {
	if len(groups) == 0 {
		return "No duplicate groups found.\n"
	}

	recW, callW, freqW := len("REC"), len("CALL"), len("FREQ")
	for _, g := range groups {
		for _, q := range g.QSOs {
			recW = max(recW, len(strconv.Itoa(q.Record)))
			callW = max(callW, len(q.Call))
			freqW = max(freqW, len(q.Freq))
		}
	}
	rowFmt := fmt.Sprintf("  %%s %%%ds  %%-%ds  %%-8s  %%-6s  %%-6s  %%-6s  %%-6s  %%-%ds  %%s\n", recW, callW, freqW)

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.groupHeading(g))
		fmt.Fprintf(&b, rowFmt, " ", "REC", "CALL", "DATE", "TIME", "BAND", "RX", "MODE", "FREQ", "QSL")
		for _, q := range g.QSOs {
			mark := " "
			if q.Keep {
				mark = f.paint(color.FgGreen, "*")
			}
			fmt.Fprintf(&b, rowFmt, mark, strconv.Itoa(q.Record), q.Call, q.QSODate, q.TimeOn,
				q.Band, dash(q.RXBand), q.Mode, dash(q.Freq), dash(q.QSLRcvd))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", plural(len(groups), "group", "groups"))
	return b.String()
}

func (f *PrettyFormatter) groupHeading(g GroupData) string {
	choice := "none"
	if g.Choice != dedup.NoChoice {
		choice = strconv.Itoa(g.Choice)
	}
	line := fmt.Sprintf("%s  (%d records, %d confirmed, choice %s, %d kept)",
		f.paint(color.Bold, g.Key), g.Size, g.Confirmed, choice, g.Kept)
	if g.Ambiguous {
		line += " " + f.paint(color.FgYellow, "ambiguous")
	}
	return line + "\n"
}

// FormatSummary renders the dedup result as aligned label/value lines.
func (f *PrettyFormatter) FormatSummary(d SummaryData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-11s%s\n", "Source:", d.Source)
	fmt.Fprintf(&b, "%-11s%s\n", "Output:", d.Output)
	fmt.Fprintf(&b, "%-11s%s\n", "Mode:", d.Mode)
	fmt.Fprintf(&b, "%-11s%s\n", "Records:", humanize.Comma(int64(d.Records)))
	fmt.Fprintf(&b, "%-11s%s\n", "Written:", humanize.Comma(int64(d.Written)))
	fmt.Fprintf(&b, "%-11s%s in %s\n", "Discarded:", humanize.Comma(int64(d.Discarded)),
		plural(d.DuplicateGroups, "duplicate group", "duplicate groups"))
	if d.Ambiguous > 0 {
		fmt.Fprintf(&b, "%-11s%s\n", "Ambiguous:", f.paint(color.FgYellow, humanize.Comma(int64(d.Ambiguous))))
	}
	return b.String()
}

// FormatMessage renders a simple message as plain text.
func (f *PrettyFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// paint colors s when coloring is enabled.
func (f *PrettyFormatter) paint(attr color.Attribute, s string) string {
	if !f.Colored {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return humanize.Comma(int64(n)) + " " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
