//go:build !linux && !darwin && !freebsd

package system

import (
	"errors"
	"runtime"
)

// GetDiskUsage is not available on this platform.
func GetDiskUsage(path string) (*DiskUsage, error) {
	return nil, errors.New("disk usage is not supported on " + runtime.GOOS)
}
