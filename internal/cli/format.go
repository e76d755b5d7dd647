package cli

import (
	"errors"
	"io"
	"os"

	"github.com/leeovery/finddups/internal/dedup"
	"github.com/leeovery/finddups/internal/storage/sqlite"
)

// Format represents the output format type.
type Format string

// Format constants for output selection.
const (
	FormatToon   Format = "toon"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// GroupData holds one group for display. Choice is the selected member
// index, or dedup.NoChoice.
type GroupData struct {
	Key       string
	Size      int
	Confirmed int
	Choice    int
	Kept      int
	Ambiguous bool
	QSOs      []QSOData
}

// QSOData holds one group member for display. Record is 1-based.
type QSOData struct {
	Record  int
	Call    string
	QSODate string
	TimeOn  string
	Band    string
	RXBand  string
	Mode    string
	Freq    string
	QSLRcvd string
	Keep    bool
}

// SummaryData describes a completed dedup run written to a file.
type SummaryData struct {
	Source          string
	Output          string
	Mode            string
	Records         int
	Written         int
	Discarded       int
	DuplicateGroups int
	Ambiguous       int
}

// Formatter defines the interface for output formatting.
// All commands use a Formatter to produce output strings.
type Formatter interface {
	// FormatStats formats run statistics.
	FormatStats(stats dedup.Stats) string

	// FormatGroups formats groups with their members.
	FormatGroups(groups []GroupData) string

	// FormatSummary formats the result of writing a deduplicated log.
	FormatSummary(data SummaryData) string

	// FormatMessage formats a simple message (e.g., "No duplicate groups found.").
	FormatMessage(msg string) string
}

// NewFormatter returns the Formatter for format. colored enables ANSI
// colors in the pretty formatter.
func NewFormatter(format Format, colored bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatPretty:
		return &PrettyFormatter{Colored: colored}
	default:
		return &ToonFormatter{}
	}
}

// DetectTTY checks if the given writer is a terminal (TTY).
// Returns false if writer is not an *os.File, if Stat() fails,
// or if the file is not a character device.
func DetectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// ResolveFormat determines the output format from flags and TTY status.
// Returns error if more than one format flag is set.
// If no flags set, returns Pretty for TTY, Toon for non-TTY.
func ResolveFormat(toonFlag, prettyFlag, jsonFlag, isTTY bool) (Format, error) {
	count := 0
	for _, set := range []bool{toonFlag, prettyFlag, jsonFlag} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("cannot specify multiple format flags (--toon, --pretty, --json)")
	}

	switch {
	case toonFlag:
		return FormatToon, nil
	case prettyFlag:
		return FormatPretty, nil
	case jsonFlag:
		return FormatJSON, nil
	case isTTY:
		return FormatPretty, nil
	}
	return FormatToon, nil
}

// groupData converts cached rows for display, joining keys with sep.
func groupData(rows []sqlite.GroupRow, sep string) []GroupData {
	out := make([]GroupData, 0, len(rows))
	for _, g := range rows {
		d := GroupData{
			Key:       g.Key.Join(sep),
			Size:      g.Size,
			Confirmed: g.Confirmed,
			Choice:    g.Choice,
			Kept:      g.Kept,
			Ambiguous: g.Ambiguous(),
		}
		for _, q := range g.QSOs {
			d.QSOs = append(d.QSOs, QSOData{
				Record:  q.Index + 1,
				Call:    q.QSO.Call,
				QSODate: q.QSO.QSODate,
				TimeOn:  q.QSO.TimeOn,
				Band:    q.QSO.Band,
				RXBand:  q.QSO.RXBand,
				Mode:    q.QSO.Mode,
				Freq:    q.QSO.Freq,
				QSLRcvd: q.QSO.QSLRcvd,
				Keep:    q.Keep,
			})
		}
		out = append(out, d)
	}
	return out
}
