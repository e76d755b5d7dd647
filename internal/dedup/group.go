package dedup

import "github.com/leeovery/finddups/internal/adif"

// Entry is one record placed in a group.
type Entry struct {
	// Index is the record's position in the input.
	Index  int
	Record *adif.Record
	QSO    QSO
	// Confirmed is QSL_RCVD == "Y", computed once when the entry is built.
	Confirmed bool
	// Keep marks the entry as authoritative for its group. It starts out
	// equal to Confirmed and is only ever set, never cleared, by selection.
	Keep bool
}

// NewEntry builds the entry for the record at input position index.
func NewEntry(index int, r *adif.Record) Entry {
	q := QSOFromRecord(r)
	return Entry{
		Index:     index,
		Record:    r,
		QSO:       q,
		Confirmed: q.Confirmed(),
		Keep:      q.Confirmed(),
	}
}

// Group holds every record that shares one Key, in input order.
type Group struct {
	Key     Key
	Entries []Entry
	// Choice is the index selected by Select, or NoChoice.
	Choice int
}

// Len returns the number of entries in the group.
func (g *Group) Len() int {
	return len(g.Entries)
}

// Duplicated reports whether more than one record shares the key.
func (g *Group) Duplicated() bool {
	return len(g.Entries) > 1
}

// ConfirmedCount returns the number of confirmed entries.
func (g *Group) ConfirmedCount() int {
	n := 0
	for _, e := range g.Entries {
		if e.Confirmed {
			n++
		}
	}
	return n
}

// Kept returns the entries whose keep flag is set, in input order.
func (g *Group) Kept() []Entry {
	var out []Entry
	for _, e := range g.Entries {
		if e.Keep {
			out = append(out, e)
		}
	}
	return out
}

// Ambiguous reports whether a duplicated group ends up with more than one
// kept entry, which happens when several members were already confirmed.
func (g *Group) Ambiguous() bool {
	return g.Duplicated() && len(g.Kept()) > 1
}

// Groups is an ordered multimap from Key to Group. Iteration follows the
// order in which each key was first added.
type Groups struct {
	order []*Group
	index map[Key]*Group
}

// NewGroups creates an empty Groups sized for n records.
func NewGroups(n int) *Groups {
	return &Groups{index: make(map[Key]*Group, n)}
}

// Add appends e to the group for key, creating the group on first use.
func (gs *Groups) Add(key Key, e Entry) {
	g, ok := gs.index[key]
	if !ok {
		g = &Group{Key: key, Choice: NoChoice}
		gs.index[key] = g
		gs.order = append(gs.order, g)
	}
	g.Entries = append(g.Entries, e)
}

// Get returns the group for key.
func (gs *Groups) Get(key Key) (*Group, bool) {
	g, ok := gs.index[key]
	return g, ok
}

// Len returns the number of groups.
func (gs *Groups) Len() int {
	return len(gs.order)
}

// All returns the groups in first-occurrence order. The slice is shared;
// callers must not reorder it.
func (gs *Groups) All() []*Group {
	return gs.order
}

// Duplicated returns the groups with more than one entry, in order.
func (gs *Groups) Duplicated() []*Group {
	var out []*Group
	for _, g := range gs.order {
		if g.Duplicated() {
			out = append(out, g)
		}
	}
	return out
}

// GroupRecords builds the groups for records in a single pass.
func GroupRecords(records []*adif.Record) *Groups {
	gs := NewGroups(len(records))
	for i, r := range records {
		e := NewEntry(i, r)
		gs.Add(e.QSO.Key(), e)
	}
	return gs
}
