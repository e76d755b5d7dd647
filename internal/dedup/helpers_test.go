package dedup

import "github.com/leeovery/finddups/internal/adif"

// qso builds a record with the key fields, QSL_RCVD and FREQ. Empty values
// are omitted so tests can exercise absent fields.
func qso(call, date, timeOn, band, mode, qsl, freq string) *adif.Record {
	r := &adif.Record{}
	for _, f := range []adif.Field{
		{Name: adif.TagCall, Value: call},
		{Name: adif.TagQSODate, Value: date},
		{Name: adif.TagTimeOn, Value: timeOn},
		{Name: adif.TagBand, Value: band},
		{Name: adif.TagMode, Value: mode},
		{Name: adif.TagQSLRcvd, Value: qsl},
		{Name: adif.TagFreq, Value: freq},
	} {
		if f.Value != "" {
			r.SetField(f)
		}
	}
	return r
}

func indexes(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	return out
}
