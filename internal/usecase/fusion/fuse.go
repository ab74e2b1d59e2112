package fusion

import (
	"sort"

	"github.com/chefboost/chefboost/internal/domain/search/result"
)

// candidate tracks one document through dedup with enough ordering state for
// the deterministic tie-breaks.
type candidate struct {
	res   result.Result
	seen  int // index of first appearance across all strategy outputs
	prio  int // priority of the strategy that produced the kept score
}

// fuse deduplicates candidates by document ID keeping the highest score and
// ranks them by score descending. Ties resolve by strategy priority, then by
// first appearance, so repeated runs over the same inputs produce the same
// order.
func fuse(lists [][]result.Result, limit int) result.Set {
	byID := make(map[string]*candidate)
	order := make([]*candidate, 0)

	seen := 0
	for _, list := range lists {
		for _, res := range list {
			seen++
			prio := res.Source().Priority()

			existing, ok := byID[res.ID()]
			if !ok {
				c := &candidate{res: res, seen: seen, prio: prio}
				byID[res.ID()] = c
				order = append(order, c)
				continue
			}

			// Keep the max score; on an exact tie the higher-priority
			// strategy claims the document.
			if res.Score() > existing.res.Score() ||
				(res.Score() == existing.res.Score() && prio > existing.prio) {
				existing.res = res
				existing.prio = prio
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.res.Score() != b.res.Score() {
			return a.res.Score() > b.res.Score()
		}
		if a.prio != b.prio {
			return a.prio > b.prio
		}
		return a.seen < b.seen
	})

	entries := make([]result.Result, 0, len(order))
	for _, c := range order {
		entries = append(entries, c.res)
	}
	return result.NewSet(entries, limit)
}
