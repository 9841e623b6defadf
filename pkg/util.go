package dupehash

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHumanSize parses human-readable size strings (e.g., "2M", "512k", "1G").
// Suffixes are binary multiples; a bare number is bytes. Zero is allowed.
func ParseHumanSize(sizeStr string) (uint64, error) {
	if strings.TrimSpace(sizeStr) == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB", "KIB":
		multiplier = 1 << 10
	case "M", "MB", "MIB":
		multiplier = 1 << 20
	case "G", "GB", "GIB":
		multiplier = 1 << 30
	case "T", "TB", "TIB":
		multiplier = 1 << 40
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := num * multiplier
	if result >= math.MaxUint64 {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}
	return uint64(result), nil
}

var decimalUnits = []string{"kB", "MB", "GB", "TB", "PB", "EB"}

// FormatDecimalBytes renders n with SI prefixes: "512 B", "1.50 kB", "2.00 MB"
func FormatDecimalBytes(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	unit := -1
	for value >= 1000 && unit < len(decimalUnits)-1 {
		value /= 1000
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, decimalUnits[unit])
}
