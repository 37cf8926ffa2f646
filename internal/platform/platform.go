package platform

import (
	"errors"
	"os/user"
	"path/filepath"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// StartupDir is a directory holding OS-managed autostart descriptors.
type StartupDir struct {
	Path string
	Kind string
	Ext  string
}

// Info contains the platform-specific paths every component works from.
// It is built once from an explicit home directory and passed down, so
// tests can point the whole engine at a fake root.
type Info struct {
	OS       Platform
	HomeDir  string
	Username string

	CacheDirs        []string
	LogDirs          []string
	TrashDirs        []string
	TempDirs         []string
	DerivedDataDirs  []string
	PackageCacheDirs []string

	StartupDirs    []StartupDir
	ProtectedPaths []string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// NewInfo builds the path layout for os rooted at homeDir.
func NewInfo(os Platform, homeDir, username string) (*Info, error) {
	if homeDir == "" {
		return nil, errors.New("home directory must not be empty")
	}
	homeDir = filepath.Clean(homeDir)

	switch os {
	case MacOS:
		return getMacOSInfo(homeDir, username), nil
	case Linux:
		return getLinuxInfo(homeDir, username), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// GetInfo resolves the current user once and builds Info for the running
// platform. A non-empty homeOverride replaces the user's home directory.
func GetInfo(homeOverride string) (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	homeDir := currentUser.HomeDir
	if homeOverride != "" {
		homeDir = homeOverride
	}

	return NewInfo(Detect(), homeDir, currentUser.Username)
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
