package cli

import (
	"strconv"
	"strings"

	toon "github.com/toon-format/toon-go"

	"github.com/leeovery/finddups/internal/dedup"
)

// ToonFormatter implements the Formatter interface using TOON format, a
// compact tabular notation that is cheap for scripts and agents to consume.
type ToonFormatter struct{}

const (
	toonGroupSchema = "{key,size,confirmed,choice,kept,ambiguous}"
	toonQSOSchema   = "{group,record,call,qso_date,time_on,band,rx_band,mode,freq,qsl_rcvd,keep}"
)

// FormatStats renders statistics as a single-row stats table.
func (f *ToonFormatter) FormatStats(s dedup.Stats) string {
	header := "stats{records,groups,singletons,duplicate_groups,kept,discarded,ambiguous,largest_group}:"
	values := joinInts(s.Records, s.Groups, s.Singletons, s.DuplicateGroups,
		s.Kept, s.Discarded, s.Ambiguous, s.LargestGroup)
	return header + "\n  " + values + "\n"
}

// FormatGroups renders two tables: groups, and qsos referring to their
// group by 0-based position in the first table.
func (f *ToonFormatter) FormatGroups(groups []GroupData) string {
	if len(groups) == 0 {
		return "groups[0]" + toonGroupSchema + ":\n\nqsos[0]" + toonQSOSchema + ":\n"
	}

	groupObjs := make([]toon.Object, 0, len(groups))
	var qsoObjs []toon.Object
	for i, g := range groups {
		groupObjs = append(groupObjs, toon.NewObject(
			toon.Field{Key: "key", Value: g.Key},
			toon.Field{Key: "size", Value: g.Size},
			toon.Field{Key: "confirmed", Value: g.Confirmed},
			toon.Field{Key: "choice", Value: g.Choice},
			toon.Field{Key: "kept", Value: g.Kept},
			toon.Field{Key: "ambiguous", Value: g.Ambiguous},
		))
		for _, q := range g.QSOs {
			qsoObjs = append(qsoObjs, toon.NewObject(
				toon.Field{Key: "group", Value: i},
				toon.Field{Key: "record", Value: q.Record},
				toon.Field{Key: "call", Value: q.Call},
				toon.Field{Key: "qso_date", Value: q.QSODate},
				toon.Field{Key: "time_on", Value: q.TimeOn},
				toon.Field{Key: "band", Value: q.Band},
				toon.Field{Key: "rx_band", Value: q.RXBand},
				toon.Field{Key: "mode", Value: q.Mode},
				toon.Field{Key: "freq", Value: q.Freq},
				toon.Field{Key: "qsl_rcvd", Value: q.QSLRcvd},
				toon.Field{Key: "keep", Value: q.Keep},
			))
		}
	}

	groupsOut, err := toon.MarshalString(toon.NewObject(toon.Field{Key: "groups", Value: groupObjs}))
	if err != nil {
		return f.FormatMessage("toon marshal error: " + err.Error())
	}
	qsosOut, err := toon.MarshalString(toon.NewObject(toon.Field{Key: "qsos", Value: qsoObjs}))
	if err != nil {
		return f.FormatMessage("toon marshal error: " + err.Error())
	}
	return groupsOut + "\n\n" + qsosOut + "\n"
}

// FormatSummary renders the dedup result as a single-row summary table.
func (f *ToonFormatter) FormatSummary(d SummaryData) string {
	header := "summary{source,output,mode,records,written,discarded,duplicate_groups,ambiguous}:"
	values := strings.Join([]string{
		toonEscapeValue(d.Source),
		toonEscapeValue(d.Output),
		toonEscapeValue(d.Mode),
		joinInts(d.Records, d.Written, d.Discarded, d.DuplicateGroups, d.Ambiguous),
	}, ",")
	return header + "\n  " + values + "\n"
}

// FormatMessage renders a simple message as plain text.
func (f *ToonFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

func joinInts(ns ...int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// toonEscapeValue uses the toon-go library to properly escape a string value
// for use in TOON array context (comma-delimited).
func toonEscapeValue(s string) string {
	doc := toon.NewObject(
		toon.Field{Key: "a", Value: []toon.Object{
			toon.NewObject(toon.Field{Key: "v", Value: s}),
		}},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return s
	}
	// Result is "a[1]{v}:\n  <value>".
	lines := strings.SplitN(result, "\n", 2)
	if len(lines) == 2 {
		return strings.TrimSpace(lines[1])
	}
	return s
}
