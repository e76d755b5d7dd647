package dedup

import "github.com/leeovery/finddups/internal/adif"

// Filter returns the records to emit: the sole record of every singleton
// group regardless of its keep flag, and the kept records of every larger
// group. Groups are visited in first-occurrence order and members in input
// order.
func Filter(gs *Groups) []*adif.Record {
	out := make([]*adif.Record, 0, gs.Len())
	for _, g := range gs.All() {
		if !g.Duplicated() {
			for _, e := range g.Entries {
				out = append(out, e.Record)
			}
			continue
		}
		for _, e := range g.Entries {
			if e.Keep {
				out = append(out, e.Record)
			}
		}
	}
	return out
}

// Discarded returns the members of duplicated groups that were not kept, in
// group order then input order.
func Discarded(gs *Groups) []Entry {
	var out []Entry
	for _, g := range gs.All() {
		if !g.Duplicated() {
			continue
		}
		for _, e := range g.Entries {
			if !e.Keep {
				out = append(out, e)
			}
		}
	}
	return out
}
