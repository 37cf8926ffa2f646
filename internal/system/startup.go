package system

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/diskscope/internal/platform"
)

// StartupItem is one autostart descriptor file.
type StartupItem struct {
	Name    string
	Path    string
	Kind    string
	Enabled bool
}

// ListStartupItems returns the descriptor files found in info's startup
// directories, directory by directory. Unreadable directories are skipped.
func ListStartupItems(info *platform.Info) []StartupItem {
	var items []StartupItem

	for _, dir := range info.StartupDirs {
		entries, err := os.ReadDir(dir.Path)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != dir.Ext {
				continue
			}

			name := strings.TrimSuffix(entry.Name(), dir.Ext)
			items = append(items, StartupItem{
				Name:    name,
				Path:    filepath.Join(dir.Path, entry.Name()),
				Kind:    dir.Kind,
				Enabled: !strings.Contains(name, "disabled"),
			})
		}
	}

	return items
}
