// Package system wraps the operating system queries that share the
// command surface with the analysis engine: disk usage, the process list
// and startup items.
package system

import "github.com/fenilsonani/diskscope/pkg/utils"

// DiskUsage describes the filesystem holding a path. FreeBytes is the
// space available to unprivileged users.
type DiskUsage struct {
	Path         string
	TotalBytes   uint64
	UsedBytes    uint64
	FreeBytes    uint64
	TotalGB      float64
	UsedGB       float64
	FreeGB       float64
	UsagePercent float64
}

func newDiskUsage(path string, total, used, free uint64) *DiskUsage {
	usage := &DiskUsage{
		Path:       path,
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  free,
		TotalGB:    utils.BytesToGB(total),
		UsedGB:     utils.BytesToGB(used),
		FreeGB:     utils.BytesToGB(free),
	}
	if total > 0 {
		usage.UsagePercent = float64(used) / float64(total) * 100
	}
	return usage
}
