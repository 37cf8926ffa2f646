package scanner

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultLimit     = 20
	DefaultStaleDays = 90

	// NoExtension is the ExtensionStat key for files without an extension.
	NoExtension = "none"
)

// FileRecord is one regular file seen by a walk.
type FileRecord struct {
	Path      string
	Size      uint64
	Extension string // lowercase, empty when the file has none
	ModTime   time.Time
}

// ScanRequest describes one scan. Build it with NewScanRequest to get the
// defaults.
type ScanRequest struct {
	Root          string
	Limit         int
	MinSize       uint64 // only files at least this large enter top/stale lists
	StaleDays     int
	MaxStaleFiles int // 0 keeps every stale file
}

// NewScanRequest returns a request for root with default limit and staleness.
func NewScanRequest(root string) ScanRequest {
	return ScanRequest{
		Root:      root,
		Limit:     DefaultLimit,
		StaleDays: DefaultStaleDays,
	}
}

// ScanSummary aggregates counters for a whole walk. Entries that could not
// be read are not part of the totals; SkippedDirs and SkippedFiles count
// them.
type ScanSummary struct {
	TotalFiles   uint64 `json:"total_files" yaml:"total_files"`
	TotalBytes   uint64 `json:"total_bytes" yaml:"total_bytes"`
	TotalDirs    uint64 `json:"total_dirs" yaml:"total_dirs"`
	SkippedDirs  uint64 `json:"skipped_dirs" yaml:"skipped_dirs"`
	SkippedFiles uint64 `json:"skipped_files" yaml:"skipped_files"`
}

// ExtensionStat is the per-extension total.
type ExtensionStat struct {
	Extension  string `json:"extension" yaml:"extension"`
	Count      uint64 `json:"count" yaml:"count"`
	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
}

// ScanResult represents the result of a scan operation
type ScanResult struct {
	Root           string
	Summary        ScanSummary
	TopFiles       []FileRecord
	ByExtension    []ExtensionStat
	StaleFiles     []FileRecord
	StaleTruncated bool
	StaleCutoff    time.Time // stale files were last modified before this
	Duration       time.Duration
}

// ExtensionOf returns the lowercase final suffix of path without the dot.
// Dotfiles such as ".bashrc" and names ending in a dot have no extension.
func ExtensionOf(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name || len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}
