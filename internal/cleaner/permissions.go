package cleaner

import (
	"fmt"
	"os"
)

// PermissionChecker predicts whether the current user can unlink an entry,
// so entries that would certainly fail are reported without an attempt.
type PermissionChecker struct {
	uid    int
	groups map[int]bool
}

// NewPermissionChecker captures the process's user and groups.
func NewPermissionChecker() *PermissionChecker {
	pc := &PermissionChecker{
		uid:    os.Getuid(),
		groups: map[int]bool{os.Getgid(): true},
	}
	if gids, err := os.Getgroups(); err == nil {
		for _, gid := range gids {
			pc.groups[gid] = true
		}
	}
	return pc
}

// IsRoot reports whether the process runs as the superuser.
func (pc *PermissionChecker) IsRoot() bool {
	return pc.uid == 0
}

// CanDelete reports whether entry can be removed from parent. The parent
// must grant write permission to the current user; when it has the sticky
// bit set, the user must also own the entry or the parent. Unknown
// ownership is left for the removal itself to decide.
func (pc *PermissionChecker) CanDelete(parent, entry os.FileInfo) bool {
	if pc.IsRoot() || parent == nil {
		return true
	}

	dirUID, dirGID, ok := fileOwner(parent)
	if !ok {
		return true
	}

	mode := parent.Mode().Perm()
	switch {
	case dirUID == pc.uid:
		if mode&0o200 == 0 {
			return false
		}
	case pc.groups[dirGID]:
		if mode&0o020 == 0 {
			return false
		}
	case mode&0o002 == 0:
		return false
	}

	if parent.Mode()&os.ModeSticky != 0 && dirUID != pc.uid {
		if entryUID, _, ok := fileOwner(entry); ok && entryUID != pc.uid {
			return false
		}
	}
	return true
}

// SpecialFileError describes why info is a device, socket or named pipe,
// or returns nil for regular files, directories and symlinks. Symlinks are
// removed as links, so their target does not matter.
func SpecialFileError(info os.FileInfo) error {
	mode := info.Mode()
	switch {
	case mode&os.ModeCharDevice != 0:
		return fmt.Errorf("%w: character device", ErrSpecialFile)
	case mode&os.ModeDevice != 0:
		return fmt.Errorf("%w: device", ErrSpecialFile)
	case mode&os.ModeSocket != 0:
		return fmt.Errorf("%w: socket", ErrSpecialFile)
	case mode&os.ModeNamedPipe != 0:
		return fmt.Errorf("%w: named pipe", ErrSpecialFile)
	}
	return nil
}
