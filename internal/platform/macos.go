package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,
		CacheDirs: []string{
			filepath.Join(homeDir, "Library/Caches"),
		},
		LogDirs: []string{
			filepath.Join(homeDir, "Library/Logs"),
		},
		TrashDirs: []string{
			filepath.Join(homeDir, ".Trash"),
		},
		TempDirs: []string{
			"/private/tmp",
			"/private/var/tmp",
		},
		DerivedDataDirs: []string{
			filepath.Join(homeDir, "Library/Developer/Xcode/DerivedData"),
		},
		// Homebrew, pip and yarn live under Library/Caches and are sized
		// with the cache category already.
		PackageCacheDirs: []string{
			filepath.Join(homeDir, ".npm/_cacache"),
			filepath.Join(homeDir, ".gradle/caches"),
			filepath.Join(homeDir, ".cargo/registry/cache"),
			filepath.Join(homeDir, "go/pkg/mod/cache/download"),
		},
		StartupDirs: []StartupDir{
			{Path: filepath.Join(homeDir, "Library/LaunchAgents"), Kind: "LaunchAgent", Ext: ".plist"},
			{Path: "/Library/LaunchAgents", Kind: "LaunchAgent", Ext: ".plist"},
			{Path: "/Library/LaunchDaemons", Kind: "LaunchDaemon", Ext: ".plist"},
		},
		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/var",
			"/dev",
			"/private/etc",
			"/private/var/db",
			homeDir,
			filepath.Join(homeDir, "Library"),
			filepath.Join(homeDir, "Library/Application Support"),
			filepath.Join(homeDir, "Library/Preferences"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Movies"),
		},
	}
}
