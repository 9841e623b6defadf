//go:build linux

package dupehash

import (
	"strings"
	"testing"
)

func TestRemainingAfterSegments(t *testing.T) {
	segs := [][]byte{[]byte("abc"), []byte("de"), []byte("f")}
	testCases := []struct {
		n        int
		expected string
	}{
		{0, "abcdef"},
		{2, "cdef"},
		{3, "def"},
		{4, "ef"},
		{6, ""},
	}
	for _, tc := range testCases {
		var sb strings.Builder
		for _, seg := range remainingAfter(segs, tc.n) {
			sb.Write(seg)
		}
		if sb.String() != tc.expected {
			t.Errorf("Expected remainingAfter(%d) = %q, got %q", tc.n, tc.expected, sb.String())
		}
	}
}
