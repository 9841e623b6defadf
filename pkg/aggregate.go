package dupehash

import "sort"

// Aggregate turns a sealed store snapshot into the ordered duplicate list.
// Singleton groups are dropped, groups are ordered by size then digest, and
// paths within a group are sorted bytewise. It returns the groups and the
// total wasted space.
func Aggregate(snapshot []EquivalenceGroup) ([]DuplicateGroup, uint64) {
	defer VerboseEnter()()

	ordered := newGroupSkiplist(skiplistLevels)
	for i := range snapshot {
		eg := &snapshot[i]
		if len(eg.Paths) < 2 {
			continue
		}

		files := append([]string(nil), eg.Paths...)
		sort.Strings(files)

		count := len(files)
		group := &DuplicateGroup{
			key:    eg.Key,
			Hash:   eg.Key.Hex(),
			Size:   eg.Key.Size(),
			Files:  files,
			Count:  count,
			Wasted: eg.Key.Size() * uint64(count-1),
		}
		if !ordered.Insert(group, ReportContext) && IsDebugEnabled(DebugAggregate) {
			VerboseLog(1, "aggregate: skiplist rejected key %s/%d", group.Hash, group.Size)
		}
	}

	groups := make([]DuplicateGroup, 0, ordered.Length())
	var total uint64
	ordered.ForEach(func(g *DuplicateGroup, _ string) bool {
		groups = append(groups, *g)
		total += g.Wasted
		return true
	})

	if IsDebugEnabled(DebugAggregate) {
		VerboseLog(2, "aggregate: %d keys, %d duplicate groups, %d bytes wasted", len(snapshot), len(groups), total)
	}
	return groups, total
}
