package dupehash

import (
	"regexp"
	"testing"
)

func u64(n uint64) *uint64 { return &n }

func TestFilter_Check(t *testing.T) {
	ignore := NewIgnoreManager("")
	if err := ignore.AddPattern(`^build/`); err != nil {
		t.Fatal(err)
	}

	opts := &ScanOptions{
		ExcludeDots: true,
		NamePattern: regexp.MustCompile(`\.jpg$`),
		MinSize:     u64(10),
		MaxSize:     u64(100),
	}
	f := NewFilter(opts, ignore)

	testCases := []struct {
		name     string
		entry    Entry
		expected FilterDecision
	}{
		{"plain file", Entry{Name: "a.jpg", RelPath: "a.jpg", Size: 50}, Accept},
		{"min is inclusive", Entry{Name: "a.jpg", RelPath: "a.jpg", Size: 10}, Accept},
		{"max is inclusive", Entry{Name: "a.jpg", RelPath: "a.jpg", Size: 100}, Accept},
		{"too small", Entry{Name: "a.jpg", RelPath: "a.jpg", Size: 9}, RejectTooSmall},
		{"too large", Entry{Name: "a.jpg", RelPath: "a.jpg", Size: 101}, RejectTooLarge},
		{"pattern mismatch", Entry{Name: "a.png", RelPath: "a.png", Size: 50}, RejectPattern},
		{"pattern before size", Entry{Name: "a.png", RelPath: "a.png", Size: 1}, RejectPattern},
		{"symlink first", Entry{Name: ".a.png", RelPath: ".a.png", Symlink: true}, RejectSymlink},
		{"dot file", Entry{Name: ".a.jpg", RelPath: ".a.jpg", Size: 50}, RejectDot},
		{"dot dir", Entry{Name: ".git", RelPath: ".git", Kind: EntryDir}, RejectDot},
		{"ignored path", Entry{Name: "x.jpg", RelPath: "build/x.jpg", Size: 50}, RejectIgnored},
		{"dirs skip name and size rules", Entry{Name: "photos", RelPath: "photos", Kind: EntryDir}, Accept},
		{"special file", Entry{Name: "fifo.jpg", RelPath: "fifo.jpg", Kind: EntryOther}, RejectSpecial},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Check(tc.entry); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestFilter_FollowSymlinks(t *testing.T) {
	f := NewFilter(&ScanOptions{FollowSymlinks: true}, nil)
	entry := Entry{Name: "link", RelPath: "link", Symlink: true, Kind: EntryFile, Size: 3}
	if got := f.Check(entry); got != Accept {
		t.Errorf("Expected followed symlink to be accepted, got %s", got)
	}
}

func TestFilter_NoBounds(t *testing.T) {
	f := NewFilter(&ScanOptions{}, nil)
	for _, size := range []uint64{0, 1, 1 << 40} {
		if got := f.Check(Entry{Name: "f", RelPath: "f", Size: size}); got != Accept {
			t.Errorf("Expected size %d to be accepted without bounds, got %s", size, got)
		}
	}
	if got := f.Check(Entry{Name: ".f", RelPath: ".f"}); got != Accept {
		t.Errorf("Expected dot file to be accepted when dots are included, got %s", got)
	}
}

func TestFilterDecision_String(t *testing.T) {
	if Accept.String() != "accept" {
		t.Errorf("Expected 'accept', got '%s'", Accept.String())
	}
	if RejectTooLarge.String() != "above-max-size" {
		t.Errorf("Expected 'above-max-size', got '%s'", RejectTooLarge.String())
	}
	if FilterDecision(200).String() != "unknown" {
		t.Errorf("Expected 'unknown', got '%s'", FilterDecision(200).String())
	}
}
