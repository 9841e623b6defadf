package dupehash

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelForVerbosity(t *testing.T) {
	testCases := []struct {
		level    int
		expected zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}
	for _, tc := range testCases {
		if got := levelForVerbosity(tc.level); got != tc.expected {
			t.Errorf("Expected level %d -> %s, got %s", tc.level, tc.expected, got)
		}
	}
}

func TestVerboseLog(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)
	defer SetVerboseLevel(0)

	SetVerboseLevel(1)
	VerboseLog(1, "scanned %d files\n", 3)
	VerboseLog(2, "hidden detail")

	out := buf.String()
	if !strings.Contains(out, "scanned 3 files") {
		t.Errorf("Expected level 1 message in output, got %q", out)
	}
	if strings.Contains(out, "hidden detail") {
		t.Errorf("Expected level 2 message to be suppressed, got %q", out)
	}
	if GetVerboseLevel() != 1 {
		t.Errorf("Expected verbose level 1, got %d", GetVerboseLevel())
	}
}

func TestDebugFlags(t *testing.T) {
	defer SetDebugFlags("")

	SetDebugFlags("scan, HASH ,store:false,watch:on")
	testCases := map[string]bool{
		DebugScan:      true,
		DebugHash:      true,
		DebugStore:     false,
		DebugWatch:     true,
		DebugAggregate: false,
	}
	for flag, expected := range testCases {
		if got := IsDebugEnabled(flag); got != expected {
			t.Errorf("Expected IsDebugEnabled(%s) = %t, got %t", flag, expected, got)
		}
	}

	SetDebugFlags("")
	if IsDebugEnabled(DebugScan) {
		t.Error("Expected flags to be cleared")
	}
}

func TestLogger_WritesToLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	Logger().Warn().Str("path", "/data/x").Msg("watch: cannot watch new directory")
	Logger().Info().Msg("below the default level")

	out := buf.String()
	if !strings.Contains(out, "cannot watch new directory") || !strings.Contains(out, "/data/x") {
		t.Errorf("Expected warning with path in output, got %q", out)
	}
	if strings.Contains(out, "below the default level") {
		t.Errorf("Expected info to be suppressed at verbose level 0, got %q", out)
	}
}
