package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Linux,
		HomeDir:  homeDir,
		Username: username,
		CacheDirs: []string{
			filepath.Join(homeDir, ".cache"),
		},
		LogDirs: []string{
			filepath.Join(homeDir, ".local/share/logs"),
			filepath.Join(homeDir, ".local/state/logs"),
		},
		TrashDirs: []string{
			filepath.Join(homeDir, ".local/share/Trash/files"),
			filepath.Join(homeDir, ".local/share/Trash/info"),
		},
		TempDirs: []string{
			"/tmp",
			"/var/tmp",
		},
		// Android Studio keeps its build cache outside ~/.cache.
		DerivedDataDirs: []string{
			filepath.Join(homeDir, ".android/build-cache"),
		},
		PackageCacheDirs: []string{
			filepath.Join(homeDir, ".npm/_cacache"),
			filepath.Join(homeDir, ".yarn/cache"),
			filepath.Join(homeDir, ".gradle/caches"),
			filepath.Join(homeDir, ".cargo/registry/cache"),
			filepath.Join(homeDir, "go/pkg/mod/cache/download"),
		},
		StartupDirs: []StartupDir{
			{Path: filepath.Join(homeDir, ".config/autostart"), Kind: "Autostart", Ext: ".desktop"},
			{Path: "/etc/xdg/autostart", Kind: "Autostart", Ext: ".desktop"},
		},
		ProtectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/home",
			"/lib",
			"/lib64",
			"/opt",
			"/proc",
			"/root",
			"/run",
			"/sbin",
			"/srv",
			"/sys",
			"/usr",
			"/var/lib",
			"/var/db",
			homeDir,
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Videos"),
		},
	}
}
