package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// HumanSize renders a byte count with one decimal place in the largest
// fitting unit up to GB. Counts below 1 KB are printed as whole bytes.
func HumanSize(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// BytesToGB converts a byte count to binary gigabytes.
func BytesToGB(bytes uint64) float64 {
	return float64(bytes) / float64(GB)
}

// ParseSize converts a human-readable size such as "10MB", "1.5 gb" or
// "4096" to bytes. Units are 1024-based.
func ParseSize(size string) (uint64, error) {
	s := strings.ToUpper(strings.TrimSpace(size))
	if s == "" {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	number, unit := s, ""
	if i >= 0 {
		number, unit = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	var multiplier float64
	switch unit {
	case "", "B":
		multiplier = B
	case "K", "KB", "KIB":
		multiplier = KB
	case "M", "MB", "MIB":
		multiplier = MB
	case "G", "GB", "GIB":
		multiplier = GB
	case "T", "TB", "TIB":
		multiplier = TB
	default:
		return 0, fmt.Errorf("unknown unit %q in size %q", unit, size)
	}

	bytes := value * multiplier
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("size %q is too large", size)
	}

	return uint64(bytes), nil
}
