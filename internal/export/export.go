// Package export turns a dedup result into the records and header of an
// output log.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leeovery/finddups/internal/adif"
	"github.com/leeovery/finddups/internal/dedup"
)

// TagKeep is set to Y or N on members of duplicate groups in mark mode.
const TagKeep = "APP_FINDDUPS_KEEP"

// DefaultPropMode is the PROP_MODE written to discarded duplicates in mark
// mode. IRL is a disused propagation mode, so loggers that filter on it can
// hide the marked records.
const DefaultPropMode = "IRL"

// ErrUnknownMode is returned by ParseMode for anything other than filter or
// mark.
var ErrUnknownMode = errors.New("unknown output mode")

// Mode selects how the result is written.
type Mode string

const (
	// ModeFilter writes only the records the engine keeps.
	ModeFilter Mode = "filter"
	// ModeMark writes every record, tagging duplicates instead of dropping them.
	ModeMark Mode = "mark"
)

// ParseMode parses a mode name. An empty name is ModeFilter.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFilter:
		return ModeFilter, nil
	case ModeMark:
		return ModeMark, nil
	}
	return "", fmt.Errorf("%w %q (want filter or mark)", ErrUnknownMode, s)
}

// Options configures Records.
type Options struct {
	Mode     Mode
	PropMode string
}

// Records returns the records to write for res. Records never modifies the
// input records; mark mode clones the ones it changes.
func Records(res *dedup.Result, opts Options) []*adif.Record {
	if opts.Mode != ModeMark {
		return res.Kept
	}

	propMode := opts.PropMode
	if propMode == "" {
		propMode = DefaultPropMode
	}

	out := make([]*adif.Record, res.Stats.Records)
	for _, g := range res.Groups.All() {
		for _, e := range g.Entries {
			if !g.Duplicated() {
				out[e.Index] = e.Record
				continue
			}
			out[e.Index] = mark(e, propMode)
		}
	}
	return out
}

func mark(e dedup.Entry, propMode string) *adif.Record {
	r := e.Record.Clone()
	if e.Keep {
		r.Set(TagKeep, "Y")
		return r
	}
	r.Set(TagKeep, "N")
	r.Set(adif.TagPropMode, propMode)
	return r
}
