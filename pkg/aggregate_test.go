package dupehash

import (
	"testing"
)

func TestAggregate_OrderingAndWaste(t *testing.T) {
	snapshot := []EquivalenceGroup{
		{Key: NewGroupKey(10, []byte{0xbb}), Paths: []string{"z", "y"}},
		{Key: NewGroupKey(1, []byte{0x01}), Paths: []string{"single"}},
		{Key: NewGroupKey(5, []byte{0xff}), Paths: []string{"m", "k", "l"}},
		{Key: NewGroupKey(10, []byte{0xaa}), Paths: []string{"q", "p"}},
		{Key: NewGroupKey(0, []byte{0x00}), Paths: []string{"empty2", "empty1"}},
	}

	groups, total := Aggregate(snapshot)

	expected := []struct {
		hash   string
		size   uint64
		files  []string
		wasted uint64
	}{
		{"00", 0, []string{"empty1", "empty2"}, 0},
		{"ff", 5, []string{"k", "l", "m"}, 10},
		{"aa", 10, []string{"p", "q"}, 10},
		{"bb", 10, []string{"y", "z"}, 10},
	}

	if len(groups) != len(expected) {
		t.Fatalf("Expected %d groups, got %d", len(expected), len(groups))
	}
	for i, exp := range expected {
		g := groups[i]
		if g.Hash != exp.hash || g.Size != exp.size {
			t.Errorf("Group %d: expected %d/%s, got %d/%s", i, exp.size, exp.hash, g.Size, g.Hash)
		}
		if g.Count != len(exp.files) {
			t.Errorf("Group %d: expected count %d, got %d", i, len(exp.files), g.Count)
		}
		for j, f := range exp.files {
			if g.Files[j] != f {
				t.Errorf("Group %d: expected file[%d] '%s', got '%s'", i, j, f, g.Files[j])
			}
		}
		if g.Wasted != exp.wasted {
			t.Errorf("Group %d: expected wasted %d, got %d", i, exp.wasted, g.Wasted)
		}
		if g.Key().Compare(NewGroupKey(exp.size, g.Key().Digest())) != 0 {
			t.Errorf("Group %d: key does not match size", i)
		}
	}

	if total != 30 {
		t.Errorf("Expected total wasted 30, got %d", total)
	}
}

func TestAggregate_NoDuplicates(t *testing.T) {
	snapshot := []EquivalenceGroup{
		{Key: NewGroupKey(3, []byte{1}), Paths: []string{"a"}},
		{Key: NewGroupKey(3, []byte{2}), Paths: []string{"b"}},
	}
	groups, total := Aggregate(snapshot)
	if len(groups) != 0 || total != 0 {
		t.Errorf("Expected no groups and no waste, got %d groups and %d bytes", len(groups), total)
	}

	groups, total = Aggregate(nil)
	if len(groups) != 0 || total != 0 {
		t.Errorf("Expected empty result for empty snapshot, got %d groups and %d bytes", len(groups), total)
	}
}

func TestAggregate_DoesNotMutateSnapshot(t *testing.T) {
	snapshot := []EquivalenceGroup{{Key: NewGroupKey(1, []byte{1}), Paths: []string{"b", "a"}}}
	Aggregate(snapshot)
	if snapshot[0].Paths[0] != "b" {
		t.Errorf("Expected snapshot paths untouched, got %v", snapshot[0].Paths)
	}
}

func TestGroupSkiplist_ForEachInKeyOrder(t *testing.T) {
	sl := newGroupSkiplist(0)
	for _, key := range []GroupKey{
		NewGroupKey(4, []byte{9}),
		NewGroupKey(1, []byte{5}),
		NewGroupKey(4, []byte{2}),
	} {
		sl.Insert(&DuplicateGroup{key: key, Files: []string{"a", "b"}}, ReportContext)
	}
	if sl.Length() != 3 {
		t.Fatalf("Expected length 3, got %d", sl.Length())
	}

	var seen []GroupKey
	sl.ForEach(func(g *DuplicateGroup, context string) bool {
		if context != ReportContext {
			t.Errorf("Expected context %s, got %s", ReportContext, context)
		}
		seen = append(seen, g.Key())
		return len(seen) < 2
	})
	if len(seen) != 2 {
		t.Fatalf("Expected ForEach to stop after 2 groups, got %d", len(seen))
	}
	if seen[0].Size() != 1 || seen[1].Digest()[0] != 2 {
		t.Errorf("Expected (1,05) then (4,02), got %v", seen)
	}
}
