package adif

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoHeaderEnd is wrapped by the ParseError returned when a header is
// never closed with <EOH>.
var ErrNoHeaderEnd = errors.New("header has no <EOH>")

// ErrUnterminatedRecord is wrapped by the ParseError returned when the input
// ends with fields that were never closed with <EOR>.
var ErrUnterminatedRecord = errors.New("record has no <EOR>")

// ParseError describes malformed ADI input at a byte offset.
type ParseError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("adif: offset %d: %s", e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadFile reads and parses the ADI file at path.
func ReadFile(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Read parses an ADI document from r.
func Read(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ADIF input: %w", err)
	}
	return Parse(data)
}

// Parse parses an ADI document held in memory.
//
// Input that does not begin with '<' has a header: the text before the first
// tag is its preamble and its fields run up to <EOH>. Records end with <EOR>.
// Text between data specifiers is ignored. Records with no fields are dropped.
func Parse(data []byte) (*Log, error) {
	l := &Log{Records: []*Record{}}
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}

	p := &parser{data: data}

	if data[0] != '<' {
		h, err := p.header()
		if err != nil {
			return nil, err
		}
		l.Header = h
	}

	cur := &Record{}
	recStart := p.pos
	for {
		spec, err := p.next()
		if err != nil {
			return nil, err
		}
		if spec == nil {
			break
		}

		switch spec.marker {
		case "EOR":
			if cur.Len() > 0 {
				l.Records = append(l.Records, cur)
			}
			cur = &Record{}
			recStart = p.pos
		case "EOH":
			// Tolerate a header that starts with a tag, as long as nothing
			// has been read as a record yet.
			if l.Header != nil || len(l.Records) > 0 {
				return nil, &ParseError{Offset: spec.offset, Msg: "unexpected <EOH>"}
			}
			l.Header = &Header{Record: *cur}
			cur = &Record{}
			recStart = p.pos
		default:
			cur.SetField(spec.field)
		}
	}

	if cur.Len() > 0 {
		return nil, &ParseError{Offset: recStart, Msg: ErrUnterminatedRecord.Error(), Err: ErrUnterminatedRecord}
	}

	return l, nil
}

type specifier struct {
	field  Field
	marker string
	offset int
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) header() (*Header, error) {
	idx := bytes.IndexByte(p.data, '<')
	if idx < 0 {
		return nil, &ParseError{Offset: len(p.data), Msg: ErrNoHeaderEnd.Error(), Err: ErrNoHeaderEnd}
	}

	h := &Header{Preamble: string(p.data[:idx])}
	p.pos = idx
	for {
		spec, err := p.next()
		if err != nil {
			return nil, err
		}
		if spec == nil {
			return nil, &ParseError{Offset: len(p.data), Msg: ErrNoHeaderEnd.Error(), Err: ErrNoHeaderEnd}
		}
		switch spec.marker {
		case "EOH":
			return h, nil
		case "EOR":
			return nil, &ParseError{Offset: spec.offset, Msg: "<EOR> inside header"}
		default:
			h.SetField(spec.field)
		}
	}
}

// next returns the next data specifier, or nil at end of input. Tags
// without a length other than <EOH> and <EOR>, such as LoTW's
// <APP_LoTW_EOF>, carry no data and are skipped like free text.
func (p *parser) next() (*specifier, error) {
	for {
		i := bytes.IndexByte(p.data[p.pos:], '<')
		if i < 0 {
			p.pos = len(p.data)
			return nil, nil
		}
		start := p.pos + i

		j := bytes.IndexByte(p.data[start:], '>')
		if j < 0 {
			return nil, &ParseError{Offset: start, Msg: "unterminated data specifier"}
		}
		end := start + j

		// A '<' in free text is not a specifier; the real one starts at the
		// last '<' before the '>'.
		if k := bytes.LastIndexByte(p.data[start:end], '<'); k > 0 {
			start += k
		}

		parts := strings.Split(string(p.data[start+1:end]), ":")
		name := NormalizeName(parts[0])

		if len(parts) == 1 {
			p.pos = end + 1
			if name == "EOH" || name == "EOR" {
				return &specifier{marker: name, offset: start}, nil
			}
			continue
		}
		if name == "" {
			return nil, &ParseError{Offset: start, Msg: "data specifier has an empty field name"}
		}
		if strings.ContainsFunc(name, unicode.IsSpace) {
			return nil, &ParseError{Offset: start, Msg: fmt.Sprintf("invalid field name %q", parts[0])}
		}
		if len(parts) > 3 {
			return nil, &ParseError{Offset: start, Msg: fmt.Sprintf("malformed data specifier for %s", name)}
		}

		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || n < 0 {
			return nil, &ParseError{Offset: start, Msg: fmt.Sprintf("invalid length %q for field %s", parts[1], name)}
		}

		var typ string
		if len(parts) == 3 {
			typ = strings.ToUpper(strings.TrimSpace(parts[2]))
		}

		valueStart := end + 1
		if n > len(p.data)-valueStart {
			return nil, &ParseError{Offset: start, Msg: fmt.Sprintf("value of %s runs past end of input", name)}
		}

		p.pos = valueStart + n
		return &specifier{
			field:  Field{Name: name, Value: string(p.data[valueStart:p.pos]), Type: typ},
			offset: start,
		}, nil
	}
}
