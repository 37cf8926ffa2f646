package reporter

import (
	"time"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/duplicates"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/internal/system"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// The view types below are the JSON and YAML shapes of every result.

type FileView struct {
	Path      string    `json:"path" yaml:"path"`
	SizeBytes uint64    `json:"size_bytes" yaml:"size_bytes"`
	SizeHuman string    `json:"size_human" yaml:"size_human"`
	Extension *string   `json:"extension" yaml:"extension"`
	Modified  time.Time `json:"modified" yaml:"modified"`
}

type ScanView struct {
	Root           string                  `json:"root" yaml:"root"`
	Summary        scanner.ScanSummary     `json:"summary" yaml:"summary"`
	TopFiles       []FileView              `json:"top_files" yaml:"top_files"`
	ByExtension    []scanner.ExtensionStat `json:"by_extension" yaml:"by_extension"`
	StaleFiles     []FileView              `json:"stale_files" yaml:"stale_files"`
	StaleTruncated bool                    `json:"stale_truncated" yaml:"stale_truncated"`
	StaleCutoff    time.Time               `json:"stale_cutoff" yaml:"stale_cutoff"`
	DurationMS     int64                   `json:"duration_ms" yaml:"duration_ms"`
}

type DuplicateGroupView struct {
	Hash      string   `json:"hash" yaml:"hash"`
	SizeBytes uint64   `json:"size_bytes" yaml:"size_bytes"`
	SizeHuman string   `json:"size_human" yaml:"size_human"`
	Files     []string `json:"files" yaml:"files"`
}

type DuplicatesView struct {
	Root             string               `json:"root" yaml:"root"`
	Groups           []DuplicateGroupView `json:"groups" yaml:"groups"`
	TotalWastedBytes uint64               `json:"total_wasted_bytes" yaml:"total_wasted_bytes"`
	TotalWastedHuman string               `json:"total_wasted_human" yaml:"total_wasted_human"`
	TotalGroups      int                  `json:"total_groups" yaml:"total_groups"`
	Verified         bool                 `json:"verified" yaml:"verified"`
}

type JunkItemView struct {
	Path      string `json:"path" yaml:"path"`
	SizeBytes uint64 `json:"size_bytes" yaml:"size_bytes"`
}

type JunkCategoryView struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	SizeBytes   uint64         `json:"size_bytes" yaml:"size_bytes"`
	SizeHuman   string         `json:"size_human" yaml:"size_human"`
	Items       []JunkItemView `json:"items" yaml:"items"`
}

type CleanView struct {
	FreedBytes   uint64   `json:"freed_bytes" yaml:"freed_bytes"`
	FreedHuman   string   `json:"freed_human" yaml:"freed_human"`
	DeletedCount int      `json:"deleted_count" yaml:"deleted_count"`
	Errors       []string `json:"errors" yaml:"errors"`
	DryRun       bool     `json:"dry_run" yaml:"dry_run"`
}

type DiskView struct {
	Path         string  `json:"path" yaml:"path"`
	TotalBytes   uint64  `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes" yaml:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes" yaml:"free_bytes"`
	TotalGB      float64 `json:"total_gb" yaml:"total_gb"`
	UsedGB       float64 `json:"used_gb" yaml:"used_gb"`
	FreeGB       float64 `json:"free_gb" yaml:"free_gb"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
}

type ProcessView struct {
	PID        int     `json:"pid" yaml:"pid"`
	Name       string  `json:"name" yaml:"name"`
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb" yaml:"memory_mb"`
	Command    string  `json:"command" yaml:"command"`
}

type StartupView struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

func newFileView(rec scanner.FileRecord) FileView {
	v := FileView{
		Path:      rec.Path,
		SizeBytes: rec.Size,
		SizeHuman: utils.HumanSize(rec.Size),
		Modified:  rec.ModTime,
	}
	if rec.Extension != "" {
		ext := rec.Extension
		v.Extension = &ext
	}
	return v
}

func newFileViews(recs []scanner.FileRecord) []FileView {
	views := make([]FileView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, newFileView(rec))
	}
	return views
}

// NewScanView converts a scan result.
func NewScanView(result *scanner.ScanResult) ScanView {
	byExt := result.ByExtension
	if byExt == nil {
		byExt = []scanner.ExtensionStat{}
	}
	return ScanView{
		Root:           result.Root,
		Summary:        result.Summary,
		TopFiles:       newFileViews(result.TopFiles),
		ByExtension:    byExt,
		StaleFiles:     newFileViews(result.StaleFiles),
		StaleTruncated: result.StaleTruncated,
		StaleCutoff:    result.StaleCutoff,
		DurationMS:     result.Duration.Milliseconds(),
	}
}

// NewDuplicatesView converts a duplicate search result.
func NewDuplicatesView(result *duplicates.Result) DuplicatesView {
	groups := make([]DuplicateGroupView, 0, len(result.Groups))
	for _, g := range result.Groups {
		groups = append(groups, DuplicateGroupView{
			Hash:      g.Fingerprint,
			SizeBytes: g.Size,
			SizeHuman: utils.HumanSize(g.Size),
			Files:     g.Files,
		})
	}
	return DuplicatesView{
		Root:             result.Root,
		Groups:           groups,
		TotalWastedBytes: result.TotalWastedBytes,
		TotalWastedHuman: utils.HumanSize(result.TotalWastedBytes),
		TotalGroups:      result.TotalGroups,
		Verified:         result.Verified,
	}
}

// NewJunkViews converts sized junk categories, keeping their order.
func NewJunkViews(reports []junk.Report) []JunkCategoryView {
	views := make([]JunkCategoryView, 0, len(reports))
	for _, r := range reports {
		items := make([]JunkItemView, 0, len(r.Items))
		for _, item := range r.Items {
			items = append(items, JunkItemView{Path: item.Path, SizeBytes: item.Size})
		}
		views = append(views, JunkCategoryView{
			ID:          r.Category.ID(),
			Name:        r.Category.Name(),
			Description: r.Category.Description(),
			SizeBytes:   r.Size,
			SizeHuman:   utils.HumanSize(r.Size),
			Items:       items,
		})
	}
	return views
}

// NewCleanView converts a clean result. Errors is never nil.
func NewCleanView(result *cleaner.CleanResult) CleanView {
	return CleanView{
		FreedBytes:   result.FreedBytes,
		FreedHuman:   utils.HumanSize(result.FreedBytes),
		DeletedCount: result.DeletedCount,
		Errors:       result.Messages(),
		DryRun:       result.DryRun,
	}
}

func NewDiskView(usage *system.DiskUsage) DiskView {
	return DiskView{
		Path:         usage.Path,
		TotalBytes:   usage.TotalBytes,
		UsedBytes:    usage.UsedBytes,
		FreeBytes:    usage.FreeBytes,
		TotalGB:      usage.TotalGB,
		UsedGB:       usage.UsedGB,
		FreeGB:       usage.FreeGB,
		UsagePercent: usage.UsagePercent,
	}
}

func NewProcessViews(procs []system.Process) []ProcessView {
	views := make([]ProcessView, 0, len(procs))
	for _, p := range procs {
		views = append(views, ProcessView(p))
	}
	return views
}

func NewStartupViews(items []system.StartupItem) []StartupView {
	views := make([]StartupView, 0, len(items))
	for _, item := range items {
		views = append(views, StartupView(item))
	}
	return views
}
