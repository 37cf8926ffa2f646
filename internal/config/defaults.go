package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Scan defaults shared with command-line flags.
const (
	DefaultScanLimit = 20
	DefaultStaleDays = 90
)

// DefaultExcludeDirs are generated-content directory names that the scan
// and duplicate walks never descend into.
var DefaultExcludeDirs = []string{
	"node_modules",
	".git",
	".svn",
	".hg",
	"target",
	"build",
	"dist",
	"__pycache__",
	".venv",
	"venv",
	".gradle",
	"Pods",
	"DerivedData",
}

// GetDefault returns the default configuration
func GetDefault() *Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}

	excludes := make([]string, len(DefaultExcludeDirs))
	copy(excludes, DefaultExcludeDirs)

	return &Config{
		HomeDir: "", // resolved from the current user at startup
		Scan: ScanConfig{
			Limit:         DefaultScanLimit,
			StaleDays:     DefaultStaleDays,
			MinSize:       "",
			MaxStaleFiles: 10000,
			SkipHidden:    true,
			ExcludeDirs:   excludes,
			Workers:       1,
		},
		Duplicates: DuplicatesConfig{
			MinSize:    "1MB",
			MaxGroups:  50,
			Workers:    workers,
			Verify:     false, // sampled fingerprints only unless asked
			SkipHidden: true,
		},
		Junk: JunkConfig{
			IncludeDerivedData:   true,
			IncludePackageCaches: true,
			MaxErrors:            10,
		},
		Log: LogConfig{
			Level:      "warn",
			EnableFile: false,
			FilePath:   "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		ProtectedPaths: []string{},
		DryRun:         false,
	}
}

// setDefaults registers every key with viper so file values layer over
// the defaults and environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("home_dir", d.HomeDir)
	v.SetDefault("protected_paths", d.ProtectedPaths)
	v.SetDefault("dry_run", d.DryRun)

	v.SetDefault("scan.limit", d.Scan.Limit)
	v.SetDefault("scan.stale_days", d.Scan.StaleDays)
	v.SetDefault("scan.min_size", d.Scan.MinSize)
	v.SetDefault("scan.max_stale_files", d.Scan.MaxStaleFiles)
	v.SetDefault("scan.skip_hidden", d.Scan.SkipHidden)
	v.SetDefault("scan.exclude_dirs", d.Scan.ExcludeDirs)
	v.SetDefault("scan.workers", d.Scan.Workers)

	v.SetDefault("duplicates.min_size", d.Duplicates.MinSize)
	v.SetDefault("duplicates.max_groups", d.Duplicates.MaxGroups)
	v.SetDefault("duplicates.workers", d.Duplicates.Workers)
	v.SetDefault("duplicates.verify", d.Duplicates.Verify)
	v.SetDefault("duplicates.skip_hidden", d.Duplicates.SkipHidden)

	v.SetDefault("junk.include_derived_data", d.Junk.IncludeDerivedData)
	v.SetDefault("junk.include_package_caches", d.Junk.IncludePackageCaches)
	v.SetDefault("junk.max_errors", d.Junk.MaxErrors)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.enable_file", d.Log.EnableFile)
	v.SetDefault("log.file_path", d.Log.FilePath)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}
