package adif

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lotwSample = `ARRL Logbook of the World Status Report
Generated at 2023-01-15 12:00:00

<PROGRAMID:4>LoTW
<APP_LoTW_LASTQSORX:19>2023-01-14 10:00:00
<APP_LoTW_NUMREC:1>2
<eoh>

<CALL:5>W1AKI
<BAND:3>20M
<MODE:3>SSB
<QSO_DATE:8>20230101
<TIME_ON:6>143000
<FREQ:8>14.23450
<QSL_RCVD:1>N
<eor>

<CALL:5>W1AKI <BAND:3>20M <MODE:3>SSB <QSO_DATE:8>20230101 <TIME_ON:4>1430 <FREQ:6>14.234 <QSL_RCVD:1>N <EOR>
`

func TestParse(t *testing.T) {
	t.Run("it parses preamble, header fields and records", func(t *testing.T) {
		l, err := Parse([]byte(lotwSample))
		require.NoError(t, err)

		require.NotNil(t, l.Header)
		assert.Equal(t, "ARRL Logbook of the World Status Report\nGenerated at 2023-01-15 12:00:00\n\n", l.Header.Preamble)
		assert.Equal(t, "LoTW", l.Header.Value(TagProgramID))
		assert.Equal(t, "2", l.Header.Value("APP_LOTW_NUMREC"))

		require.Len(t, l.Records, 2)
		assert.Equal(t, "143000", l.Records[0].Value(TagTimeOn))
		assert.Equal(t, "1430", l.Records[1].Value(TagTimeOn))
		assert.Equal(t, "14.234", l.Records[1].Value(TagFreq))
		assert.Equal(t, 7, l.Records[1].Len())
	})

	t.Run("it upper-cases field names", func(t *testing.T) {
		l, err := Parse([]byte("<call:5>W1AKI<eor>"))
		require.NoError(t, err)

		require.Len(t, l.Records, 1)
		assert.Equal(t, []Field{{Name: TagCall, Value: "W1AKI"}}, l.Records[0].Fields())
	})

	t.Run("it has no header when input starts with a tag", func(t *testing.T) {
		l, err := Parse([]byte("<CALL:5>W1AKI<EOR>"))
		require.NoError(t, err)

		assert.Nil(t, l.Header)
		assert.Len(t, l.Records, 1)
	})

	t.Run("it accepts a header that starts with a tag", func(t *testing.T) {
		l, err := Parse([]byte("<ADIF_VER:5>3.1.0<EOH><CALL:5>W1AKI<EOR>"))
		require.NoError(t, err)

		require.NotNil(t, l.Header)
		assert.Equal(t, "3.1.0", l.Header.Value(TagADIFVer))
		assert.Len(t, l.Records, 1)
	})

	t.Run("it reads the type indicator", func(t *testing.T) {
		l, err := Parse([]byte("<NOTES:5:M>hello<EOR>"))
		require.NoError(t, err)

		assert.Equal(t, Field{Name: "NOTES", Value: "hello", Type: "M"}, l.Records[0].Fields()[0])
	})

	t.Run("it reads values by length even when they contain angle brackets", func(t *testing.T) {
		l, err := Parse([]byte("<COMMENT:9>a <b> c>d<CALL:5>W1AKI<EOR>"))
		require.NoError(t, err)

		assert.Equal(t, "a <b> c>d", l.Records[0].Value("COMMENT"))
		assert.Equal(t, "W1AKI", l.Records[0].Value(TagCall))
	})

	t.Run("it accepts zero-length values", func(t *testing.T) {
		l, err := Parse([]byte("<RX_BAND:0><CALL:5>W1AKI<EOR>"))
		require.NoError(t, err)

		v, ok := l.Records[0].Get(TagRXBand)
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("it drops records with no fields", func(t *testing.T) {
		l, err := Parse([]byte("<EOR><CALL:5>W1AKI<EOR><EOR>"))
		require.NoError(t, err)

		assert.Len(t, l.Records, 1)
	})

	t.Run("it returns an empty log for empty input", func(t *testing.T) {
		l, err := Parse([]byte("  \n"))
		require.NoError(t, err)

		assert.Nil(t, l.Header)
		assert.Empty(t, l.Records)
	})

	t.Run("it reports a header without EOH", func(t *testing.T) {
		_, err := Parse([]byte("preamble only <CALL:5>W1AKI"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoHeaderEnd))
	})

	t.Run("it reports a trailing record without EOR", func(t *testing.T) {
		_, err := Parse([]byte("<CALL:5>W1AKI<EOR><CALL:5>K1ABC"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnterminatedRecord))
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 18, pe.Offset)
	})

	t.Run("it reports malformed specifiers with their offset", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			msg   string
		}{
			{"unterminated", "<CALL:5", "unterminated data specifier"},
			{"space in name", "<MY CALL:5>W1AKI<EOR>", "invalid field name"},
			{"bad length", "<CALL:x>W1AKI<EOR>", "invalid length"},
			{"negative length", "<CALL:-1>W1AKI<EOR>", "invalid length"},
			{"too long", "<CALL:50>W1AKI<EOR>", "runs past end of input"},
			{"empty name", "<:3>abc<EOR>", "empty field name"},
			{"too many parts", "<CALL:5:S:X>W1AKI<EOR>", "malformed data specifier"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Parse([]byte(tc.input))

				var pe *ParseError
				require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
				assert.Equal(t, 0, pe.Offset)
				assert.Contains(t, pe.Error(), tc.msg)
			})
		}
	})

	t.Run("it skips tags without a length", func(t *testing.T) {
		l, err := Parse([]byte(lotwSample + "\n<APP_LoTW_EOF>\n"))
		require.NoError(t, err)

		assert.Len(t, l.Records, 2)
	})

	t.Run("it skips a lengthless tag inside a record", func(t *testing.T) {
		l, err := Parse([]byte("<CALL:5>W1AKI<APP_X><BAND:3>20M<EOR>"))
		require.NoError(t, err)

		require.Len(t, l.Records, 1)
		assert.Equal(t, []Field{{Name: TagCall, Value: "W1AKI"}, {Name: TagBand, Value: "20M"}}, l.Records[0].Fields())
	})

	t.Run("it treats a stray '<' in free text as text", func(t *testing.T) {
		l, err := Parse([]byte("<CALL:5>W1AKI<EOR>\nnote: 5 < 6\n<CALL:5>K1ABC<EOR>"))
		require.NoError(t, err)

		require.Len(t, l.Records, 2)
		assert.Equal(t, []Field{{Name: TagCall, Value: "K1ABC"}}, l.Records[1].Fields())
	})

	t.Run("it reports a length larger than the input without panicking", func(t *testing.T) {
		var err error
		require.NotPanics(t, func() {
			_, err = Parse([]byte("<CALL:9223372036854775807>W1AKI<EOR>"))
		})

		var pe *ParseError
		require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
		assert.Equal(t, 0, pe.Offset)
	})

	t.Run("it rejects EOR inside a header", func(t *testing.T) {
		_, err := Parse([]byte("text <CALL:5>W1AKI<EOR><EOH>"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "<EOR> inside header")
	})
}

func TestReadFile(t *testing.T) {
	t.Run("it reads a file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.adi")
		require.NoError(t, os.WriteFile(path, []byte(lotwSample), 0644))

		l, err := ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, l.Records, 2)
	})

	t.Run("it wraps a missing file error", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.adi"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestRead(t *testing.T) {
	t.Run("it parses from a reader", func(t *testing.T) {
		l, err := Read(strings.NewReader(lotwSample))
		require.NoError(t, err)
		assert.Len(t, l.Records, 2)
	})
}
