package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/duplicates"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/internal/system"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// render encodes view for the machine formats and calls table or summary
// for the human ones.
func (r *Reporter) render(view any, table, summary func() error) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	case FormatYAML:
		encoder := yaml.NewEncoder(r.writer)
		defer encoder.Close()
		return encoder.Encode(view)
	case FormatTable:
		return table()
	case FormatSummary:
		return summary()
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) newTable(header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(r.writer)
	table.Header(header...)
	return table
}

// ReportScan writes a scan result.
func (r *Reporter) ReportScan(result *scanner.ScanResult) error {
	view := NewScanView(result)
	return r.render(view, func() error {
		fmt.Fprintf(r.writer, "Largest files under %s\n", result.Root)
		top := r.newTable("#", "Path", "Size", "Modified")
		for i, f := range result.TopFiles {
			if err := top.Append(strconv.Itoa(i+1), f.Path, utils.HumanSize(f.Size), humanize.Time(f.ModTime)); err != nil {
				return err
			}
		}
		if err := top.Render(); err != nil {
			return err
		}

		fmt.Fprintf(r.writer, "\nBy extension\n")
		exts := r.newTable("Extension", "Files", "Size")
		for _, e := range result.ByExtension {
			if err := exts.Append(e.Extension, humanize.Comma(int64(e.Count)), utils.HumanSize(e.TotalBytes)); err != nil {
				return err
			}
		}
		exts.Footer("TOTAL", humanize.Comma(int64(result.Summary.TotalFiles)), utils.HumanSize(result.Summary.TotalBytes))
		if err := exts.Render(); err != nil {
			return err
		}

		if len(result.StaleFiles) > 0 {
			fmt.Fprintf(r.writer, "\nStale files%s\n", staleSince(result))
			stale := r.newTable("Path", "Size", "Modified")
			for _, f := range result.StaleFiles {
				if err := stale.Append(f.Path, utils.HumanSize(f.Size), f.ModTime.Format("2006-01-02")); err != nil {
					return err
				}
			}
			if err := stale.Render(); err != nil {
				return err
			}
		}
		r.writeStaleNote(result)
		return nil
	}, func() error {
		s := result.Summary
		fmt.Fprintf(r.writer, "=== Scan Summary ===\n")
		fmt.Fprintf(r.writer, "Root: %s\n", result.Root)
		fmt.Fprintf(r.writer, "Files: %s (%s)\n", humanize.Comma(int64(s.TotalFiles)), utils.HumanSize(s.TotalBytes))
		fmt.Fprintf(r.writer, "Directories: %s\n", humanize.Comma(int64(s.TotalDirs)))
		if s.SkippedDirs > 0 || s.SkippedFiles > 0 {
			fmt.Fprintf(r.writer, "Unreadable: %d directories, %d files\n", s.SkippedDirs, s.SkippedFiles)
		}
		if len(result.TopFiles) > 0 {
			largest := result.TopFiles[0]
			fmt.Fprintf(r.writer, "Largest: %s (%s)\n", largest.Path, utils.HumanSize(largest.Size))
		}
		if len(result.ByExtension) > 0 {
			ext := result.ByExtension[0]
			fmt.Fprintf(r.writer, "Top extension: %s (%d files, %s)\n", ext.Extension, ext.Count, utils.HumanSize(ext.TotalBytes))
		}
		fmt.Fprintf(r.writer, "Stale files: %d%s\n", len(result.StaleFiles), staleSince(result))
		r.writeStaleNote(result)
		return nil
	})
}

func staleSince(result *scanner.ScanResult) string {
	if result.StaleCutoff.IsZero() {
		return ""
	}
	return " (not modified since " + result.StaleCutoff.Format("2006-01-02") + ")"
}

func (r *Reporter) writeStaleNote(result *scanner.ScanResult) {
	if result.StaleTruncated {
		fmt.Fprintf(r.writer, "Stale list truncated at %d files\n", len(result.StaleFiles))
	}
}

// ReportDuplicates writes a duplicate search result.
func (r *Reporter) ReportDuplicates(result *duplicates.Result) error {
	view := NewDuplicatesView(result)
	return r.render(view, func() error {
		table := r.newTable("Hash", "Size", "Copies", "Wasted", "Files")
		for _, g := range result.Groups {
			err := table.Append(g.Fingerprint, utils.HumanSize(g.Size), strconv.Itoa(len(g.Files)),
				utils.HumanSize(g.Wasted()), strings.Join(g.Files, "\n"))
			if err != nil {
				return err
			}
		}
		table.Footer("TOTAL", "", strconv.Itoa(result.TotalGroups)+" groups", view.TotalWastedHuman, "")
		if err := table.Render(); err != nil {
			return err
		}
		r.writeDuplicateNotes(result)
		return nil
	}, func() error {
		fmt.Fprintf(r.writer, "=== Duplicate Summary ===\n")
		fmt.Fprintf(r.writer, "Root: %s\n", result.Root)
		fmt.Fprintf(r.writer, "Groups: %d shown of %d\n", len(result.Groups), result.TotalGroups)
		fmt.Fprintf(r.writer, "Wasted: %s\n", view.TotalWastedHuman)
		r.writeDuplicateNotes(result)
		return nil
	})
}

func (r *Reporter) writeDuplicateNotes(result *duplicates.Result) {
	if !result.Verified {
		fmt.Fprintf(r.writer, "Groups match on size and sampled bytes only; use --verify to compare full content.\n")
	}
}

// ReportJunk writes sized junk categories.
func (r *Reporter) ReportJunk(reports []junk.Report) error {
	view := NewJunkViews(reports)
	var total uint64
	for _, rep := range reports {
		total += rep.Size
	}

	return r.render(view, func() error {
		table := r.newTable("ID", "Category", "Description", "Entries", "Size")
		for _, rep := range reports {
			err := table.Append(rep.Category.ID(), rep.Category.Name(), rep.Category.Description(),
				humanize.Comma(int64(len(rep.Items))), utils.HumanSize(rep.Size))
			if err != nil {
				return err
			}
		}
		table.Footer("TOTAL", "", "", "", utils.HumanSize(total))
		return table.Render()
	}, func() error {
		fmt.Fprintf(r.writer, "=== Junk Summary ===\n")
		for _, rep := range reports {
			fmt.Fprintf(r.writer, "  %s: %s\n", rep.Category.Name(), utils.HumanSize(rep.Size))
		}
		fmt.Fprintf(r.writer, "Reclaimable: %s\n", utils.HumanSize(total))
		return nil
	})
}

// ReportClean writes a clean result.
func (r *Reporter) ReportClean(result *cleaner.CleanResult) error {
	view := NewCleanView(result)
	summary := func() error {
		verb := "Freed"
		if result.DryRun {
			verb = "Would free"
		}
		fmt.Fprintf(r.writer, "=== Clean Summary ===\n")
		fmt.Fprintf(r.writer, "%s %s across %d entries\n", verb, view.FreedHuman, result.DeletedCount)
		if result.ErrorCount > 0 {
			fmt.Fprint(r.writer, cleaner.FormatErrorSummary(result.Errors))
			for _, msg := range view.Errors {
				fmt.Fprintf(r.writer, "  %s\n", msg)
			}
			if hidden := result.ErrorCount - len(result.Errors); hidden > 0 {
				fmt.Fprintf(r.writer, "  ... and %d more\n", hidden)
			}
		}
		return nil
	}
	return r.render(view, summary, summary)
}

// ReportDisk writes disk usage.
func (r *Reporter) ReportDisk(usage *system.DiskUsage) error {
	view := NewDiskView(usage)
	return r.render(view, func() error {
		table := r.newTable("Path", "Total", "Used", "Free", "Use%")
		if err := table.Append(usage.Path, utils.HumanSize(usage.TotalBytes), utils.HumanSize(usage.UsedBytes),
			utils.HumanSize(usage.FreeBytes), fmt.Sprintf("%.1f%%", usage.UsagePercent)); err != nil {
			return err
		}
		return table.Render()
	}, func() error {
		fmt.Fprintf(r.writer, "%s: %.1f GB used of %.1f GB (%.1f%%), %.1f GB free\n",
			usage.Path, usage.UsedGB, usage.TotalGB, usage.UsagePercent, usage.FreeGB)
		return nil
	})
}

// ReportProcesses writes the process list.
func (r *Reporter) ReportProcesses(procs []system.Process) error {
	table := func() error {
		t := r.newTable("PID", "Name", "CPU%", "Memory", "Command")
		for _, p := range procs {
			err := t.Append(strconv.Itoa(p.PID), p.Name, fmt.Sprintf("%.1f", p.CPUPercent),
				fmt.Sprintf("%.1f MB", p.MemoryMB), p.Command)
			if err != nil {
				return err
			}
		}
		return t.Render()
	}
	return r.render(NewProcessViews(procs), table, table)
}

// ReportStartup writes startup items.
func (r *Reporter) ReportStartup(items []system.StartupItem) error {
	table := func() error {
		t := r.newTable("Name", "Kind", "Enabled", "Path")
		for _, item := range items {
			if err := t.Append(item.Name, item.Kind, strconv.FormatBool(item.Enabled), item.Path); err != nil {
				return err
			}
		}
		return t.Render()
	}
	return r.render(NewStartupViews(items), table, table)
}

// SaveToFile creates path and runs report against a reporter writing to it.
func SaveToFile(path string, format OutputFormat, report func(*Reporter) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return report(New(file, format))
}
