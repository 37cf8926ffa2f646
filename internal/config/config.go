package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/diskscope/internal/security"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// EnvPrefix prefixes environment overrides, e.g. DISKSCOPE_SCAN_LIMIT.
const EnvPrefix = "DISKSCOPE"

// Config represents the application configuration
type Config struct {
	HomeDir        string           `yaml:"home_dir" mapstructure:"home_dir"`
	Scan           ScanConfig       `yaml:"scan" mapstructure:"scan"`
	Duplicates     DuplicatesConfig `yaml:"duplicates" mapstructure:"duplicates"`
	Junk           JunkConfig       `yaml:"junk" mapstructure:"junk"`
	Log            LogConfig        `yaml:"log" mapstructure:"log"`
	ProtectedPaths []string         `yaml:"protected_paths" mapstructure:"protected_paths"`
	DryRun         bool             `yaml:"dry_run" mapstructure:"dry_run"`
}

// ScanConfig controls the single-pass directory scan.
type ScanConfig struct {
	Limit         int      `yaml:"limit" mapstructure:"limit"`
	StaleDays     int      `yaml:"stale_days" mapstructure:"stale_days"`
	MinSize       string   `yaml:"min_size" mapstructure:"min_size"` // e.g. "1MB", empty for none
	MaxStaleFiles int      `yaml:"max_stale_files" mapstructure:"max_stale_files"`
	SkipHidden    bool     `yaml:"skip_hidden" mapstructure:"skip_hidden"`
	ExcludeDirs   []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"` // names or glob patterns
	Workers       int      `yaml:"workers" mapstructure:"workers"`           // 1 walks sequentially
}

// DuplicatesConfig controls duplicate detection.
type DuplicatesConfig struct {
	MinSize    string `yaml:"min_size" mapstructure:"min_size"`
	MaxGroups  int    `yaml:"max_groups" mapstructure:"max_groups"`
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	Verify     bool   `yaml:"verify" mapstructure:"verify"`
	SkipHidden bool   `yaml:"skip_hidden" mapstructure:"skip_hidden"`
}

// JunkConfig controls junk category sizing and cleaning.
type JunkConfig struct {
	IncludeDerivedData   bool `yaml:"include_derived_data" mapstructure:"include_derived_data"`
	IncludePackageCaches bool `yaml:"include_package_caches" mapstructure:"include_package_caches"`
	MaxErrors            int  `yaml:"max_errors" mapstructure:"max_errors"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	EnableFile bool   `yaml:"enable_file" mapstructure:"enable_file"`
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// Load reads configuration from configPath, layering it over the defaults
// and applying DISKSCOPE_* environment overrides. A missing file yields
// the defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, GetDefault())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HomeDir != "" && !filepath.IsAbs(c.HomeDir) {
		return fmt.Errorf("home_dir must be absolute: %s", c.HomeDir)
	}

	if c.Scan.Limit < 0 {
		return fmt.Errorf("scan limit must be >= 0")
	}
	if c.Scan.StaleDays < 0 {
		return fmt.Errorf("stale days must be >= 0")
	}
	if c.Scan.MaxStaleFiles < 0 {
		return fmt.Errorf("max stale files must be >= 0")
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must be >= 0")
	}
	if _, err := c.ScanMinSize(); err != nil {
		return fmt.Errorf("invalid scan min_size: %w", err)
	}

	for _, pattern := range c.Scan.ExcludeDirs {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if c.Duplicates.MaxGroups < 0 {
		return fmt.Errorf("duplicate max groups must be >= 0")
	}
	if c.Duplicates.Workers < 0 {
		return fmt.Errorf("duplicate workers must be >= 0")
	}
	if _, err := c.DuplicatesMinSize(); err != nil {
		return fmt.Errorf("invalid duplicates min_size: %w", err)
	}

	if c.Junk.MaxErrors < 0 {
		return fmt.Errorf("junk max errors must be >= 0")
	}

	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	return nil
}

// ScanMinSize returns the parsed scan min_size, 0 when unset.
func (c *Config) ScanMinSize() (uint64, error) {
	return parseOptionalSize(c.Scan.MinSize)
}

// DuplicatesMinSize returns the parsed duplicates min_size, 0 when unset.
func (c *Config) DuplicatesMinSize() (uint64, error) {
	return parseOptionalSize(c.Duplicates.MinSize)
}

func parseOptionalSize(s string) (uint64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return utils.ParseSize(s)
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "diskscope")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists(configPath string) (bool, error) {
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := Save(GetDefault(), configPath); err != nil {
		return false, err
	}

	return true, nil
}
