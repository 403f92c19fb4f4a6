package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kibibyte = int64(1024)
	mebibyte = kibibyte * 1024
	gibibyte = mebibyte * 1024
)

// ParseSizeLimit converts a size literal such as "2048", "64K", "1M" or "2G"
// into a byte count. An empty literal or a bare suffix is rejected; negative
// values are rejected.
func ParseSizeLimit(sizeLiteral string) (int64, error) {
	trimmedLiteral := strings.TrimSpace(sizeLiteral)
	if trimmedLiteral == "" {
		return 0, fmt.Errorf("empty size value")
	}

	multiplier := int64(1)
	switch strings.ToUpper(trimmedLiteral[len(trimmedLiteral)-1:]) {
	case "K":
		multiplier = kibibyte
		trimmedLiteral = trimmedLiteral[:len(trimmedLiteral)-1]
	case "M":
		multiplier = mebibyte
		trimmedLiteral = trimmedLiteral[:len(trimmedLiteral)-1]
	case "G":
		multiplier = gibibyte
		trimmedLiteral = trimmedLiteral[:len(trimmedLiteral)-1]
	}

	if trimmedLiteral == "" {
		return 0, fmt.Errorf("size value %q has a suffix but no number", sizeLiteral)
	}

	parsedValue, parseError := strconv.ParseInt(trimmedLiteral, 10, 64)
	if parseError != nil {
		return 0, fmt.Errorf("invalid size value %q: use positive integer bytes or a K/M/G suffix", sizeLiteral)
	}
	if parsedValue < 0 {
		return 0, fmt.Errorf("size value %q cannot be negative", sizeLiteral)
	}
	return parsedValue * multiplier, nil
}

// FormatMebibytes renders a byte count as a fixed two-decimal MiB figure for
// the closing statistics line.
func FormatMebibytes(byteCount int64) string {
	return fmt.Sprintf("%.2f MiB", float64(byteCount)/float64(mebibyte))
}
