package dedup

// NoChoice means selection made no decision for a group.
const NoChoice = -1

// Choose returns the index of the member to keep in a group of n records
// with confirmed of them already confirmed, or NoChoice.
//
// The indexes for pairs and for larger groups are fixed placeholders: they
// do not compare FREQ or TIME_ON precision between members.
func Choose(n, confirmed int) int {
	switch {
	case n <= 0:
		return NoChoice
	case n == 1:
		return 0
	case n == 2:
		if confirmed == 0 {
			return 1
		}
		// Existing confirmations stand.
		return NoChoice
	default:
		return 2
	}
}

// Select applies Choose to the group, sets the keep flag of the chosen
// entry, records the choice and returns it. Other entries keep the flag
// they were built with.
func (g *Group) Select() int {
	choice := Choose(len(g.Entries), g.ConfirmedCount())
	g.Choice = choice
	if choice != NoChoice {
		g.Entries[choice].Keep = true
	}
	return choice
}

// SelectAll runs Select on every group.
func SelectAll(gs *Groups) {
	for _, g := range gs.All() {
		g.Select()
	}
}
