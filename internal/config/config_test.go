package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// GetDefault Tests
// =============================================================================

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg == nil {
		t.Fatal("GetDefault returned nil")
	}

	if cfg.Scan.Limit != 20 {
		t.Errorf("Scan.Limit = %d, want 20", cfg.Scan.Limit)
	}
	if cfg.Scan.StaleDays != 90 {
		t.Errorf("Scan.StaleDays = %d, want 90", cfg.Scan.StaleDays)
	}
	if !cfg.Scan.SkipHidden {
		t.Error("expected hidden entries to be skipped by default")
	}
	if cfg.Scan.Workers != 1 {
		t.Errorf("Scan.Workers = %d, want 1 (sequential)", cfg.Scan.Workers)
	}
	if cfg.Duplicates.MaxGroups != 50 {
		t.Errorf("Duplicates.MaxGroups = %d, want 50", cfg.Duplicates.MaxGroups)
	}
	if cfg.Duplicates.Verify {
		t.Error("expected duplicate verification to be off by default")
	}
	if cfg.Duplicates.Workers < 1 || cfg.Duplicates.Workers > 8 {
		t.Errorf("Duplicates.Workers = %d, want 1..8", cfg.Duplicates.Workers)
	}
	if cfg.Junk.MaxErrors != 10 {
		t.Errorf("Junk.MaxErrors = %d, want 10", cfg.Junk.MaxErrors)
	}
	if cfg.DryRun {
		t.Error("expected DryRun to be false by default")
	}
}

func TestGetDefaultExcludeDirs(t *testing.T) {
	cfg := GetDefault()

	for _, name := range []string{"node_modules", ".git", "target", "build"} {
		found := false
		for _, excluded := range cfg.Scan.ExcludeDirs {
			if excluded == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q in default exclude dirs", name)
		}
	}

	// Mutating one default must not leak into the next.
	cfg.Scan.ExcludeDirs[0] = "changed"
	if GetDefault().Scan.ExcludeDirs[0] == "changed" {
		t.Error("GetDefault shares its exclude slice between calls")
	}
}

func TestGetDefaultMinSizes(t *testing.T) {
	cfg := GetDefault()

	scanMin, err := cfg.ScanMinSize()
	if err != nil || scanMin != 0 {
		t.Errorf("ScanMinSize() = %d, %v; want 0, nil", scanMin, err)
	}

	dupMin, err := cfg.DuplicatesMinSize()
	if err != nil || dupMin != 1024*1024 {
		t.Errorf("DuplicatesMinSize() = %d, %v; want %d, nil", dupMin, err, 1024*1024)
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load should not error for non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.Scan.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", cfg.Scan.Limit)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Duplicates.MaxGroups != 50 {
		t.Errorf("expected default max groups 50, got %d", cfg.Duplicates.MaxGroups)
	}
}

func TestLoadValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
home_dir: /srv/fakehome
scan:
  limit: 5
  stale_days: 30
  min_size: 1MB
  skip_hidden: false
  exclude_dirs: ["vendor", "*.cache"]
  workers: 4
duplicates:
  min_size: 10KB
  max_groups: 10
  verify: true
junk:
  include_derived_data: false
  max_errors: 3
dry_run: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HomeDir != "/srv/fakehome" {
		t.Errorf("HomeDir = %q, want /srv/fakehome", cfg.HomeDir)
	}
	if cfg.Scan.Limit != 5 {
		t.Errorf("Scan.Limit = %d, want 5", cfg.Scan.Limit)
	}
	if cfg.Scan.StaleDays != 30 {
		t.Errorf("Scan.StaleDays = %d, want 30", cfg.Scan.StaleDays)
	}
	if cfg.Scan.SkipHidden {
		t.Error("expected SkipHidden to be false")
	}
	if len(cfg.Scan.ExcludeDirs) != 2 || cfg.Scan.ExcludeDirs[1] != "*.cache" {
		t.Errorf("Scan.ExcludeDirs = %v, want [vendor *.cache]", cfg.Scan.ExcludeDirs)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Scan.Workers = %d, want 4", cfg.Scan.Workers)
	}
	if min, _ := cfg.ScanMinSize(); min != 1024*1024 {
		t.Errorf("ScanMinSize() = %d, want %d", min, 1024*1024)
	}
	if min, _ := cfg.DuplicatesMinSize(); min != 10*1024 {
		t.Errorf("DuplicatesMinSize() = %d, want %d", min, 10*1024)
	}
	if cfg.Duplicates.MaxGroups != 10 {
		t.Errorf("Duplicates.MaxGroups = %d, want 10", cfg.Duplicates.MaxGroups)
	}
	if !cfg.Duplicates.Verify {
		t.Error("expected Verify to be true")
	}
	if cfg.Junk.IncludeDerivedData {
		t.Error("expected IncludeDerivedData to be false")
	}
	if !cfg.Junk.IncludePackageCaches {
		t.Error("expected IncludePackageCaches to keep its default (true)")
	}
	if cfg.Junk.MaxErrors != 3 {
		t.Errorf("Junk.MaxErrors = %d, want 3", cfg.Junk.MaxErrors)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun to be true")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
scan:
  limit: 7
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scan.Limit != 7 {
		t.Errorf("Scan.Limit = %d, want 7", cfg.Scan.Limit)
	}
	if cfg.Scan.StaleDays != 90 {
		t.Errorf("expected default StaleDays 90, got %d", cfg.Scan.StaleDays)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level warn, got %q", cfg.Log.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("scan:\n  limit: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("DISKSCOPE_SCAN_LIMIT", "3")
	t.Setenv("DISKSCOPE_DUPLICATES_VERIFY", "true")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scan.Limit != 3 {
		t.Errorf("Scan.Limit = %d, want env override 3", cfg.Scan.Limit)
	}
	if !cfg.Duplicates.Verify {
		t.Error("expected DISKSCOPE_DUPLICATES_VERIFY to enable verification")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
scan:
  limit: [invalid
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"negative limit", "scan:\n  limit: -1\n", "scan limit"},
		{"negative stale days", "scan:\n  stale_days: -5\n", "stale days"},
		{"bad scan min size", "scan:\n  min_size: lots\n", "scan min_size"},
		{"bad duplicate min size", "duplicates:\n  min_size: 5XB\n", "duplicates min_size"},
		{"bad exclude pattern", "scan:\n  exclude_dirs: [\"[\"]\n", "exclude pattern"},
		{"relative protected path", "protected_paths: [\"relative/path\"]\n", "protected path must be absolute"},
		{"relative home", "home_dir: relative\n", "home_dir must be absolute"},
		{"negative max errors", "junk:\n  max_errors: -1\n", "max errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

// =============================================================================
// Save Tests
// =============================================================================

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := GetDefault()
	cfg.Scan.Limit = 42
	cfg.Duplicates.Verify = true
	cfg.ProtectedPaths = []string{"/data"}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loadedCfg.Scan.Limit != 42 {
		t.Errorf("expected limit 42 after save/load, got %d", loadedCfg.Scan.Limit)
	}
	if !loadedCfg.Duplicates.Verify {
		t.Error("expected Verify to be true after save/load")
	}
	if len(loadedCfg.ProtectedPaths) != 1 || loadedCfg.ProtectedPaths[0] != "/data" {
		t.Errorf("ProtectedPaths = %v, want [/data]", loadedCfg.ProtectedPaths)
	}
}

func TestEnsureConfigExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "deep", "nested", "config.yaml")

	created, err := EnsureConfigExists(configPath)
	if err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}
	if !created {
		t.Error("expected config to be created on first call")
	}

	created, err = EnsureConfigExists(configPath)
	if err != nil {
		t.Fatalf("EnsureConfigExists failed on second call: %v", err)
	}
	if created {
		t.Error("expected existing config to be left alone")
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidateValidConfig(t *testing.T) {
	cfg := GetDefault()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidateZeroValues(t *testing.T) {
	cfg := GetDefault()
	cfg.Scan.Limit = 0
	cfg.Scan.StaleDays = 0
	cfg.Scan.MaxStaleFiles = 0
	cfg.Duplicates.MaxGroups = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("zero values should be valid: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}

	if !strings.HasSuffix(path, filepath.Join(".config", "diskscope", "config.yaml")) {
		t.Errorf("GetConfigPath() = %q, want suffix .config/diskscope/config.yaml", path)
	}
}
