package dupehash

import (
	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// ReportContext tags groups inserted by the aggregator
const ReportContext = "report"

// groupSkiplist keeps duplicate groups ordered by GroupKey
type groupSkiplist struct {
	skiplist *zcsl.ZeroCopySkiplist[DuplicateGroup, GroupKey, string]
}

func newGroupSkiplist(maxLevels int) *groupSkiplist {
	if maxLevels < 8 {
		maxLevels = skiplistLevels
	}

	getKeyFromItem := func(g *DuplicateGroup) GroupKey {
		return g.key
	}
	getItemSize := func(g *DuplicateGroup) int {
		return len(g.Files)
	}
	cmpKey := func(a, b GroupKey) int {
		return a.Compare(b)
	}

	return &groupSkiplist{
		skiplist: zcsl.MakeZeroCopySkiplist[DuplicateGroup, GroupKey, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Insert adds a group under context and reports whether the skiplist accepted it
func (gs *groupSkiplist) Insert(group *DuplicateGroup, context string) bool {
	return gs.skiplist.Insert(group, context)
}

// ForEach visits groups in key order until callback returns false
func (gs *groupSkiplist) ForEach(callback func(*DuplicateGroup, string) bool) {
	for current := gs.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			return
		}
	}
}

// Length returns the number of groups
func (gs *groupSkiplist) Length() int {
	return gs.skiplist.Length()
}
