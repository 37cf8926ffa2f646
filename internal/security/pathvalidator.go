package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultProtectedPaths are system locations that are never deleted and
// whose immediate children are never deleted either.
var DefaultProtectedPaths = []string{
	// Unix system directories
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
	// macOS system directories
	"/System",
	"/Applications",
	"/Library/System",
}

// PathValidator is the single gate every deletion passes through.
type PathValidator struct {
	protectedPaths []string
}

// NewPathValidator creates a PathValidator with the default protected
// paths plus any extra ones.
func NewPathValidator(extra ...string) *PathValidator {
	pv := &PathValidator{
		protectedPaths: make([]string, 0, len(DefaultProtectedPaths)+len(extra)),
	}
	for _, p := range DefaultProtectedPaths {
		pv.AddProtectedPath(p)
	}
	for _, p := range extra {
		pv.AddProtectedPath(p)
	}
	return pv
}

// ValidatePathForDeletion checks that path is safe to remove. Symlinks in
// the parent chain are resolved; the final element is not, since removing
// a symlink only removes the link.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if strings.ContainsAny(path, "\x00\n\r") {
		return fmt.Errorf("path contains control characters: %q", path)
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	if filepath.Clean(path) != path {
		return fmt.Errorf("path contains suspicious elements: %s", path)
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		parent = filepath.Dir(path)
	}

	resolved := filepath.Join(parent, filepath.Base(path))

	// Both the literal and the resolved location must be outside the
	// protected set.
	if err := pv.checkProtectedPaths(path); err != nil {
		return err
	}
	return pv.checkProtectedPaths(resolved)
}

// checkProtectedPaths rejects a protected path itself and anything one
// level beneath it.
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return fmt.Errorf("refusing to delete protected path: %s", cleanPath)
		}
	}

	for _, protected := range pv.protectedPaths {
		prefix := protected + string(filepath.Separator)
		if protected == "/" {
			prefix = protected
		}

		if strings.HasPrefix(cleanPath, prefix) {
			rel, err := filepath.Rel(protected, cleanPath)
			if err == nil && !strings.Contains(rel, string(filepath.Separator)) {
				return fmt.Errorf("refusing to delete critical system path: %s", cleanPath)
			}
		}
	}

	return nil
}

// AddProtectedPath adds a custom protected path
func (pv *PathValidator) AddProtectedPath(path string) {
	cleanPath := filepath.Clean(path)
	for _, existing := range pv.protectedPaths {
		if existing == cleanPath {
			return
		}
	}
	pv.protectedPaths = append(pv.protectedPaths, cleanPath)
}

// ValidateGlobPattern validates that a glob pattern is safe
func ValidateGlobPattern(pattern string) error {
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}

	if _, err := filepath.Match(pattern, "test"); err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}
