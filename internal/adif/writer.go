package adif

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer writes an ADI document. Call Flush when done.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// FormatField renders a single data specifier with its value, e.g.
// <CALL:5>W1AKI. The length is the byte length of the value.
func FormatField(f Field) string {
	if f.Type != "" {
		return fmt.Sprintf("<%s:%d:%s>%s", f.Name, len(f.Value), f.Type, f.Value)
	}
	return fmt.Sprintf("<%s:%d>%s", f.Name, len(f.Value), f.Value)
}

// WriteHeader writes the preamble, the header fields one per line, and <EOH>.
// A header must not begin with '<', so an empty preamble is replaced with a
// line naming the format.
func (w *Writer) WriteHeader(h *Header) error {
	preamble := h.Preamble
	if strings.TrimSpace(preamble) == "" {
		preamble = "ADIF export\n"
	} else if strings.HasPrefix(preamble, "<") {
		preamble = "ADIF export\n" + preamble
	}
	if !strings.HasSuffix(preamble, "\n") {
		preamble += "\n"
	}
	if _, err := w.w.WriteString(preamble); err != nil {
		return err
	}
	for _, f := range h.Fields() {
		if _, err := fmt.Fprintln(w.w, FormatField(f)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w.w, EndOfHeader); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.w)
	return err
}

// WriteRecord writes the record's fields one per line followed by <EOR> and
// a blank line.
func (w *Writer) WriteRecord(r *Record) error {
	for _, f := range r.Fields() {
		if _, err := fmt.Fprintln(w.w, FormatField(f)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w.w, EndOfRecord); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.w)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Encode writes a whole log to w.
func Encode(w io.Writer, l *Log) error {
	aw := NewWriter(w)
	if l.Header != nil {
		if err := aw.WriteHeader(l.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for i, r := range l.Records {
		if err := aw.WriteRecord(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}
	return aw.Flush()
}
