// Package adif defines the record model for amateur-radio logs and reads and
// writes them in the ADIF ADI (tagged text) format.
package adif

import "strings"

// Tag names used by finddups. ADIF tag names are case-insensitive; records
// store them upper-cased.
const (
	TagCall     = "CALL"
	TagQSODate  = "QSO_DATE"
	TagTimeOn   = "TIME_ON"
	TagBand     = "BAND"
	TagRXBand   = "RX_BAND"
	TagMode     = "MODE"
	TagFreq     = "FREQ"
	TagQSLRcvd  = "QSL_RCVD"
	TagPropMode = "PROP_MODE"

	TagProgramID        = "PROGRAMID"
	TagProgramVersion   = "PROGRAM_VERSION"
	TagCreatedTimestamp = "CREATED_TIMESTAMP"
	TagADIFVer          = "ADIF_VER"
)

// End-of-header and end-of-record markers.
const (
	EndOfHeader = "<EOH>"
	EndOfRecord = "<EOR>"
)

// Field is a single ADIF data specifier.
type Field struct {
	Name  string
	Value string
	// Type is the optional data type indicator, e.g. "S" in <NAME:3:S>.
	Type string
}

// Record is an ordered list of fields. Names are compared case-insensitively
// and stored upper-cased. The zero value is an empty record ready to use.
type Record struct {
	fields []Field
}

// NewRecord creates a record from the given fields, in order. A repeated name
// replaces the earlier value in place.
func NewRecord(fields ...Field) *Record {
	r := &Record{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		r.SetField(f)
	}
	return r
}

// NormalizeName upper-cases and trims a tag name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (r *Record) find(name string) int {
	name = NormalizeName(name)
	for i := range r.fields {
		if r.fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the named field and whether it is present.
func (r *Record) Get(name string) (string, bool) {
	if i := r.find(name); i >= 0 {
		return r.fields[i].Value, true
	}
	return "", false
}

// Value returns the value of the named field, or "" when absent.
func (r *Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Has reports whether the named field is present.
func (r *Record) Has(name string) bool {
	return r.find(name) >= 0
}

// Set replaces the value of the named field, keeping its position and type,
// or appends it when absent.
func (r *Record) Set(name, value string) {
	if i := r.find(name); i >= 0 {
		r.fields[i].Value = value
		return
	}
	r.fields = append(r.fields, Field{Name: NormalizeName(name), Value: value})
}

// SetField is Set with an explicit type indicator.
func (r *Record) SetField(f Field) {
	f.Name = NormalizeName(f.Name)
	if i := r.find(f.Name); i >= 0 {
		r.fields[i] = f
		return
	}
	r.fields = append(r.fields, f)
}

// Delete removes the named field. It reports whether the field was present.
func (r *Record) Delete(name string) bool {
	i := r.find(name)
	if i < 0 {
		return false
	}
	r.fields = append(r.fields[:i], r.fields[i+1:]...)
	return true
}

// Fields returns a copy of the fields in order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{fields: r.Fields()}
}

// Equal reports whether both records hold the same fields in the same order.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if r.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// Header is the optional block that precedes the records of an ADI file.
type Header struct {
	// Preamble is the free text before the first header tag. An ADI header
	// must not begin with '<', so a non-empty preamble is what marks it.
	Preamble string
	Record
}

// NewHeader creates a header with the given preamble and fields.
func NewHeader(preamble string, fields ...Field) *Header {
	h := &Header{Preamble: preamble}
	for _, f := range fields {
		h.SetField(f)
	}
	return h
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	return &Header{Preamble: h.Preamble, Record: Record{fields: h.Fields()}}
}

// Log is a parsed ADI file. Header is nil when the file started with a tag.
type Log struct {
	Header  *Header
	Records []*Record
}
