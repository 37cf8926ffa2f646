package junk

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/platform"
	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/internal/security"
)

const sizeWorkers = 4

// Item is one top-level entry of a category root.
type Item struct {
	Path string
	Size uint64
}

// Report is the sized state of one category.
type Report struct {
	Category Category
	Size     uint64
	Items    []Item // largest first
}

// Categorizer sizes and cleans junk categories for one platform layout.
type Categorizer struct {
	info             *platform.Info
	categories       []Category
	cleaner          *cleaner.Cleaner
	progressReporter *progress.ProgressReporter
}

// New builds a categorizer over info. Optional categories are dropped when
// cfg disables them; deletions are guarded by info's and cfg's protected
// paths.
func New(cfg *config.Config, info *platform.Info) *Categorizer {
	var categories []Category
	for _, c := range AllCategories {
		switch {
		case c == DerivedData && !cfg.Junk.IncludeDerivedData:
			continue
		case c == PackageCaches && !cfg.Junk.IncludePackageCaches:
			continue
		}
		categories = append(categories, c)
	}

	protected := make([]string, 0, len(info.ProtectedPaths)+len(cfg.ProtectedPaths))
	protected = append(protected, info.ProtectedPaths...)
	protected = append(protected, cfg.ProtectedPaths...)

	return &Categorizer{
		info:       info,
		categories: categories,
		cleaner:    cleaner.New(security.NewPathValidator(protected...), cfg.DryRun, cfg.Junk.MaxErrors),
	}
}

// SetProgressReporter sets a custom progress reporter
func (c *Categorizer) SetProgressReporter(pr *progress.ProgressReporter) {
	c.progressReporter = pr
	c.cleaner.SetProgressReporter(pr)
}

// Categories returns the enabled categories in declaration order.
func (c *Categorizer) Categories() []Category {
	return c.categories
}

// Lookup resolves id to a category enabled for this categorizer. A
// category disabled by config is reported as not found.
func (c *Categorizer) Lookup(id string) (Category, bool) {
	category, ok := ParseCategory(id)
	if !ok {
		return 0, false
	}
	for _, enabled := range c.categories {
		if enabled == category {
			return category, true
		}
	}
	return 0, false
}

// Cleaner returns the cleaner used for deletions.
func (c *Categorizer) Cleaner() *cleaner.Cleaner {
	return c.cleaner
}

// Scan sizes every enabled category. Missing roots size to zero, and
// conditional categories are left out unless they hold data. The result
// is sorted by size, largest first, ties in declaration order. Only
// cancellation makes it fail.
func (c *Categorizer) Scan(ctx context.Context) ([]Report, error) {
	startTime := time.Now()
	reports := make([]*Report, len(c.categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sizeWorkers)

	for i, category := range c.categories {
		g.Go(func() error {
			report, err := c.sizeCategory(gctx, category)
			if err != nil {
				return err
			}
			reports[i] = report

			c.progressReporter.Report(progress.Update{
				Operation:   "junk",
				Phase:       progress.PhaseSizing,
				CurrentPath: category.Name(),
				Bytes:       report.Size,
				StartTime:   startTime,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Category.Conditional() && r.Size == 0 {
			continue
		}
		out = append(out, *r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})

	zerolog.Ctx(ctx).Info().
		Int("categories", len(out)).
		Dur("duration", time.Since(startTime)).
		Msg("junk sizing finished")

	return out, nil
}

// sizeCategory lists the top-level entries of each root and sizes every
// entry recursively. The category size is the sum of its items.
func (c *Categorizer) sizeCategory(ctx context.Context, category Category) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := &Report{Category: category}

	for _, root := range category.Roots(c.info) {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Debug().Err(err).Str("path", root).Msg("skipping unreadable junk root")
			}
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			path := filepath.Join(root, entry.Name())
			size, err := scanner.TreeSize(ctx, path)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
				continue
			}

			report.Items = append(report.Items, Item{Path: path, Size: size})
			report.Size += size
		}
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].Size > report.Items[j].Size
	})

	return report, nil
}

// Clean deletes the top-level entries of every root of the named
// categories. Unknown or disabled identifiers are ignored and repeats
// count once, so an empty or unknown-only list yields a zero result.
func (c *Categorizer) Clean(ctx context.Context, ids []string) (*cleaner.CleanResult, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[Category]bool)
	var targets []cleaner.Target

	for _, id := range ids {
		category, ok := c.Lookup(id)
		if !ok {
			logger.Debug().Str("category", id).Msg("ignoring unknown or disabled junk category")
			continue
		}
		if seen[category] {
			continue
		}
		seen[category] = true

		for _, root := range category.Roots(c.info) {
			targets = append(targets, cleaner.Target{Category: category.ID(), Dir: root})
		}
	}

	return c.cleaner.Clean(ctx, targets)
}
