// Package dedup finds QSO records that were split into near-identical copies
// by services that truncate time or frequency precision, and picks the copy
// to retain.
//
// The pipeline is a single forward pass:
//
//  1. Normalize: KeyOf builds a Key from CALL, QSO_DATE, TIME_ON, BAND,
//     RX_BAND and MODE, treating absent fields as empty and truncating a
//     six-digit TIME_ON (HHMMSS) to HHMM. Records are never modified.
//  2. Group: GroupRecords appends every record, with its QSL_RCVD=Y
//     confirmation flag, to the group for its key. Groups keep the order in
//     which their keys first appeared and members keep input order.
//  3. Select: Choose decides which member of a group is authoritative from
//     the group size and its confirmed count alone:
//
//     size 1            keep the only member
//     size 2, none QSL  keep index 1
//     size 2, any QSL   no change; confirmed members stand
//     size 3 or more    keep index 2
//
//     The fixed indexes are a provisional tie-break. They do not look at
//     which copy carries the more precise FREQ or TIME_ON.
//  4. Filter: Filter emits every singleton and, for larger groups, only the
//     members whose keep flag is set.
//
// Two genuinely different contacts that share all six key values are grouped
// together. This is a known limitation, not an error. A group with several
// confirmed members keeps all of them and is reported as ambiguous for a
// human to resolve.
package dedup
