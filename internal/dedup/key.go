package dedup

import (
	"fmt"
	"strings"

	"github.com/leeovery/finddups/internal/adif"
)

// Separator joins key values in Key.String. Grouping compares Key structs
// directly, so a separator inside a value only affects how keys print.
const Separator = "|"

// QSO is a typed view of the record fields the engine reads. Absent fields
// are empty strings.
type QSO struct {
	Call    string
	QSODate string
	TimeOn  string
	Band    string
	RXBand  string
	Mode    string
	QSLRcvd string
	Freq    string
}

// QSOFromRecord reads the QSO view of r without modifying it.
func QSOFromRecord(r *adif.Record) QSO {
	return QSO{
		Call:    r.Value(adif.TagCall),
		QSODate: r.Value(adif.TagQSODate),
		TimeOn:  r.Value(adif.TagTimeOn),
		Band:    r.Value(adif.TagBand),
		RXBand:  r.Value(adif.TagRXBand),
		Mode:    r.Value(adif.TagMode),
		QSLRcvd: r.Value(adif.TagQSLRcvd),
		Freq:    r.Value(adif.TagFreq),
	}
}

// Confirmed reports whether the QSO has been confirmed (QSL_RCVD is Y).
func (q QSO) Confirmed() bool {
	return q.QSLRcvd == "Y"
}

// Key returns the grouping key for the QSO.
func (q QSO) Key() Key {
	return Key{
		Call:    q.Call,
		QSODate: q.QSODate,
		TimeOn:  NormalizeTime(q.TimeOn),
		Band:    q.Band,
		RXBand:  q.RXBand,
		Mode:    q.Mode,
	}
}

// Key identifies the real-world contact a record describes.
type Key struct {
	Call    string
	QSODate string
	TimeOn  string // normalized, see NormalizeTime
	Band    string
	RXBand  string
	Mode    string
}

// KeyOf returns the grouping key for r.
func KeyOf(r *adif.Record) Key {
	return QSOFromRecord(r).Key()
}

// NormalizeTime truncates an HHMMSS time to HHMM. Any other length is
// returned unchanged.
func NormalizeTime(timeOn string) string {
	if len(timeOn) == 6 {
		return timeOn[:4]
	}
	return timeOn
}

// Get returns the value of one key field.
func (k Key) Get(f KeyField) string {
	switch f {
	case FieldCall:
		return k.Call
	case FieldQSODate:
		return k.QSODate
	case FieldTimeOn:
		return k.TimeOn
	case FieldBand:
		return k.Band
	case FieldRXBand:
		return k.RXBand
	case FieldMode:
		return k.Mode
	}
	return ""
}

// Values returns the key values in KeyFields order.
func (k Key) Values() []string {
	return []string{k.Call, k.QSODate, k.TimeOn, k.Band, k.RXBand, k.Mode}
}

// String joins the key values with Separator, e.g.
// W1AKI|20230101|1430|20M||SSB.
func (k Key) String() string {
	return k.Join(Separator)
}

// Join joins the key values with sep.
func (k Key) Join(sep string) string {
	return strings.Join(k.Values(), sep)
}

// SeparatorError reports a key field value that contains the separator.
type SeparatorError struct {
	Index     int
	Field     KeyField
	Value     string
	Separator string
}

func (e *SeparatorError) Error() string {
	return fmt.Sprintf("record %d: %s value %q contains separator %q", e.Index+1, e.Field, e.Value, e.Separator)
}

// ValidateSeparator returns a *SeparatorError for the first record whose key
// field values contain sep, or nil. Raw TIME_ON values are checked, before
// normalization.
func ValidateSeparator(records []*adif.Record, sep string) error {
	if errs := FindSeparatorConflicts(records, sep, 1); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// FindSeparatorConflicts returns up to limit conflicts, or all of them when
// limit is zero or negative.
func FindSeparatorConflicts(records []*adif.Record, sep string, limit int) []*SeparatorError {
	if sep == "" {
		return nil
	}
	var out []*SeparatorError
	for i, r := range records {
		for _, f := range KeyFields {
			v := r.Value(f.Tag())
			if strings.Contains(v, sep) {
				out = append(out, &SeparatorError{Index: i, Field: f, Value: v, Separator: sep})
				if limit > 0 && len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}
