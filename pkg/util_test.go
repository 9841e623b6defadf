package dupehash

import (
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	testCases := []struct {
		input    string
		expected uint64
		valid    bool
	}{
		{"0", 0, true},
		{"4096", 4096, true},
		{"512b", 512, true},
		{"1k", 1024, true},
		{"1KB", 1024, true},
		{"1KiB", 1024, true},
		{"2M", 2 * 1024 * 1024, true},
		{"1.5m", 1536 * 1024, true},
		{"1G", 1 << 30, true},
		{" 3T ", 3 << 40, true},
		{"", 0, false},
		{"abc", 0, false},
		{"10Q", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tc := range testCases {
		got, err := ParseHumanSize(tc.input)
		if !tc.valid {
			if err == nil {
				t.Errorf("ParseHumanSize(%q) should fail but returned %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanSize(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("Expected ParseHumanSize(%q) = %d, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestFormatDecimalBytes(t *testing.T) {
	testCases := []struct {
		input    uint64
		expected string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.00 kB"},
		{1500, "1.50 kB"},
		{2_000_000, "2.00 MB"},
		{3_210_000_000, "3.21 GB"},
		{1 << 62, "4.61 EB"},
	}

	for _, tc := range testCases {
		if got := FormatDecimalBytes(tc.input); got != tc.expected {
			t.Errorf("Expected FormatDecimalBytes(%d) = %s, got %s", tc.input, tc.expected, got)
		}
	}
}

func TestIgnoreManager(t *testing.T) {
	im := NewIgnoreManager("")
	if err := im.LoadIgnorePatterns(); err != nil {
		t.Fatalf("Expected empty ignore path to load nothing, got %v", err)
	}
	if im.HasPatterns() {
		t.Error("Expected no patterns")
	}

	if err := im.AddPattern(`^cache/`); err != nil {
		t.Fatal(err)
	}
	if err := im.AddPattern(`[`); err == nil {
		t.Error("Expected invalid regex to be rejected")
	}

	if !im.HasPatterns() {
		t.Error("Expected patterns after AddPattern")
	}
	if !im.ShouldIgnore("cache/x") {
		t.Error("Expected cache/x to be ignored")
	}
	if im.ShouldIgnore("src/cache/x") {
		t.Error("Expected src/cache/x to be kept")
	}
}
