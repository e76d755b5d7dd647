package adif

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatField(t *testing.T) {
	t.Run("it writes the byte length of the value", func(t *testing.T) {
		assert.Equal(t, "<CALL:5>W1AKI", FormatField(Field{Name: TagCall, Value: "W1AKI"}))
		assert.Equal(t, "<RX_BAND:0>", FormatField(Field{Name: TagRXBand}))
	})

	t.Run("it includes the type indicator when present", func(t *testing.T) {
		assert.Equal(t, "<USERDEF1:8:S>log.adif", FormatField(Field{Name: "USERDEF1", Value: "log.adif", Type: "S"}))
	})
}

func TestEncode(t *testing.T) {
	t.Run("it writes header, records and end markers", func(t *testing.T) {
		l := &Log{
			Header: NewHeader("finddups output\n", Field{Name: TagProgramID, Value: "finddups"}),
			Records: []*Record{
				NewRecord(Field{Name: TagCall, Value: "W1AKI"}, Field{Name: TagTimeOn, Value: "1430"}),
			},
		}

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, l))

		want := "finddups output\n" +
			"<PROGRAMID:8>finddups\n" +
			"<EOH>\n" +
			"\n" +
			"<CALL:5>W1AKI\n" +
			"<TIME_ON:4>1430\n" +
			"<EOR>\n" +
			"\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("it omits the header when there is none", func(t *testing.T) {
		l := &Log{Records: []*Record{NewRecord(Field{Name: TagCall, Value: "W1AKI"})}}

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, l))

		assert.Equal(t, "<CALL:5>W1AKI\n<EOR>\n\n", buf.String())
	})

	t.Run("it never lets a header begin with a tag", func(t *testing.T) {
		l := &Log{Header: NewHeader("", Field{Name: TagADIFVer, Value: "3.1.0"})}

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, l))

		assert.Equal(t, "ADIF export\n<ADIF_VER:5>3.1.0\n<EOH>\n\n", buf.String())
	})

	t.Run("it round-trips through Parse", func(t *testing.T) {
		first, err := Parse([]byte(lotwSample))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, first))

		second, err := Parse(buf.Bytes())
		require.NoError(t, err)

		require.NotNil(t, second.Header)
		assert.Equal(t, first.Header.Preamble, second.Header.Preamble)
		assert.True(t, first.Header.Equal(&second.Header.Record))
		require.Len(t, second.Records, len(first.Records))
		for i := range first.Records {
			assert.True(t, first.Records[i].Equal(second.Records[i]), "record %d differs", i)
		}
	})
}
