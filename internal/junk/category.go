// Package junk sizes and cleans the fixed set of reclaimable locations:
// caches, logs, trash, temp files and build or package caches.
package junk

import "github.com/fenilsonani/diskscope/internal/platform"

// Category is one kind of junk. The set is closed; use ParseCategory to
// turn an identifier into a Category.
type Category int

const (
	SystemCache Category = iota
	AppLogs
	Trash
	TempFiles
	DerivedData
	PackageCaches
)

// AllCategories lists every category in declaration order.
var AllCategories = []Category{SystemCache, AppLogs, Trash, TempFiles, DerivedData, PackageCaches}

type categoryMeta struct {
	id          string
	name        string
	description string
	conditional bool
	roots       func(*platform.Info) []string
}

var categoryTable = map[Category]categoryMeta{
	SystemCache: {
		id: "system_cache", name: "System & App Cache", description: "Cached data",
		roots: func(i *platform.Info) []string { return i.CacheDirs },
	},
	AppLogs: {
		id: "app_logs", name: "Application Logs", description: "Log files",
		roots: func(i *platform.Info) []string { return i.LogDirs },
	},
	Trash: {
		id: "trash", name: "Trash Bin", description: "Deleted files",
		roots: func(i *platform.Info) []string { return i.TrashDirs },
	},
	TempFiles: {
		id: "temp_files", name: "Temporary Files", description: "Shared temporary directories",
		roots: func(i *platform.Info) []string { return i.TempDirs },
	},
	DerivedData: {
		id: "derived_data", name: "Xcode Derived Data", description: "IDE build intermediates",
		conditional: true,
		roots:       func(i *platform.Info) []string { return i.DerivedDataDirs },
	},
	PackageCaches: {
		id: "package_caches", name: "Package Manager Caches", description: "Downloaded package archives",
		conditional: true,
		roots:       func(i *platform.Info) []string { return i.PackageCacheDirs },
	},
}

// ID returns the stable identifier used on the command line and in JSON.
func (c Category) ID() string { return categoryTable[c].id }

func (c Category) Name() string { return categoryTable[c].name }

func (c Category) Description() string { return categoryTable[c].description }

// Conditional reports whether the category is only listed when it exists
// and holds data.
func (c Category) Conditional() bool { return categoryTable[c].conditional }

// Roots returns the directories the category covers on info's platform.
func (c Category) Roots(info *platform.Info) []string {
	meta, ok := categoryTable[c]
	if !ok {
		return nil
	}
	return meta.roots(info)
}

func (c Category) String() string { return c.ID() }

// ParseCategory looks up a category by identifier.
func ParseCategory(id string) (Category, bool) {
	for _, c := range AllCategories {
		if c.ID() == id {
			return c, true
		}
	}
	return 0, false
}
