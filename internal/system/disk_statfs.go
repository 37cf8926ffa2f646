//go:build linux || darwin || freebsd

package system

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// GetDiskUsage queries the filesystem that holds path.
func GetDiskUsage(path string) (*DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("failed to stat filesystem at %s: %w", path, err)
	}

	bsize := uint64(st.Bsize)
	total := uint64(st.Blocks) * bsize
	used := (uint64(st.Blocks) - uint64(st.Bfree)) * bsize
	free := uint64(st.Bavail) * bsize

	return newDiskUsage(path, total, used, free), nil
}
