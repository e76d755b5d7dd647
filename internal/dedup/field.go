package dedup

import "github.com/leeovery/finddups/internal/adif"

// KeyField identifies one of the record fields that make up a Key.
type KeyField int

const (
	FieldCall KeyField = iota
	FieldQSODate
	FieldTimeOn
	FieldBand
	FieldRXBand
	FieldMode
)

// KeyFields lists the key fields in key order.
var KeyFields = []KeyField{FieldCall, FieldQSODate, FieldTimeOn, FieldBand, FieldRXBand, FieldMode}

var fieldTags = [...]string{
	FieldCall:    adif.TagCall,
	FieldQSODate: adif.TagQSODate,
	FieldTimeOn:  adif.TagTimeOn,
	FieldBand:    adif.TagBand,
	FieldRXBand:  adif.TagRXBand,
	FieldMode:    adif.TagMode,
}

// Tag returns the ADIF tag name of the field.
func (f KeyField) Tag() string {
	if f < 0 || int(f) >= len(fieldTags) {
		return ""
	}
	return fieldTags[f]
}

func (f KeyField) String() string {
	return f.Tag()
}
