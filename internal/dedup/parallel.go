package dedup

import (
	"context"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/leeovery/finddups/internal/adif"
)

// GroupRecordsParallel builds the same Groups as GroupRecords using up to
// shards goroutines. Keys are sharded by hash so that each group is built
// by exactly one shard; shard results are merged by the input index of each
// group's first entry, which reproduces sequential first-occurrence order.
func GroupRecordsParallel(ctx context.Context, records []*adif.Record, shards int) (*Groups, error) {
	if shards < 2 || len(records) < shards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return GroupRecords(records), nil
	}

	entries := make([]Entry, len(records))
	keys := make([]Key, len(records))

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(records) + shards - 1) / shards
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				entries[i] = NewEntry(i, records[i])
				keys[i] = entries[i].QSO.Key()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Bucket indexes per shard in input order.
	buckets := make([][]int, shards)
	for i, k := range keys {
		s := int(xxhash.Sum64String(k.String()) % uint64(shards))
		buckets[s] = append(buckets[s], i)
	}

	partial := make([]*Groups, shards)
	g, gctx = errgroup.WithContext(ctx)
	for s := range buckets {
		g.Go(func() error {
			gs := NewGroups(len(buckets[s]))
			for _, i := range buckets[s] {
				if err := gctx.Err(); err != nil {
					return err
				}
				gs.Add(keys[i], entries[i])
			}
			partial[s] = gs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*Group
	for _, gs := range partial {
		all = append(all, gs.All()...)
	}
	sort.Slice(all, func(a, b int) bool {
		return all[a].Entries[0].Index < all[b].Entries[0].Index
	})

	merged := &Groups{order: all, index: make(map[Key]*Group, len(all))}
	for _, grp := range all {
		merged.index[grp.Key] = grp
	}
	return merged, nil
}
