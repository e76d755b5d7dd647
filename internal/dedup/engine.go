package dedup

import (
	"context"

	"github.com/leeovery/finddups/internal/adif"
)

// Options configures RunContext.
type Options struct {
	// Shards is the number of concurrent grouping shards. Values below 2
	// group sequentially.
	Shards int
}

// Stats summarizes one run.
type Stats struct {
	Records         int
	Groups          int
	Singletons      int
	DuplicateGroups int
	Kept            int
	Discarded       int
	Ambiguous       int
	LargestGroup    int
}

// Result is the outcome of grouping and selection over one input.
type Result struct {
	Groups *Groups
	// Kept is the output of Filter.
	Kept  []*adif.Record
	Stats Stats
}

// Run groups records sequentially, selects a member per group and filters.
func Run(records []*adif.Record) *Result {
	return finish(GroupRecords(records), len(records))
}

// RunContext is Run with optional sharded grouping. It only fails when ctx
// is cancelled.
func RunContext(ctx context.Context, records []*adif.Record, opts Options) (*Result, error) {
	if opts.Shards < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Run(records), nil
	}
	gs, err := GroupRecordsParallel(ctx, records, opts.Shards)
	if err != nil {
		return nil, err
	}
	return finish(gs, len(records)), nil
}

func finish(gs *Groups, n int) *Result {
	SelectAll(gs)
	res := &Result{Groups: gs, Kept: Filter(gs)}
	res.Stats = computeStats(gs, n, len(res.Kept))
	return res
}

func computeStats(gs *Groups, records, kept int) Stats {
	s := Stats{Records: records, Groups: gs.Len(), Kept: kept}
	for _, g := range gs.All() {
		if g.Len() > s.LargestGroup {
			s.LargestGroup = g.Len()
		}
		if !g.Duplicated() {
			s.Singletons++
			continue
		}
		s.DuplicateGroups++
		if g.Ambiguous() {
			s.Ambiguous++
		}
		for _, e := range g.Entries {
			if !e.Keep {
				s.Discarded++
			}
		}
	}
	return s
}
