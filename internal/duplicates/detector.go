// Package duplicates groups files that look identical: same size, then
// same sampled-prefix fingerprint, optionally confirmed by a full hash.
package duplicates

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// DefaultMaxGroups caps the groups returned by Find.
const DefaultMaxGroups = 50

// Group is a set of at least two files sharing size and fingerprint.
type Group struct {
	Fingerprint string   // sampled digest, or full xxhash when verified
	Size        uint64   // size of every member
	Files       []string // sorted
}

// Wasted returns the bytes reclaimable by keeping a single copy.
func (g Group) Wasted() uint64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Size * uint64(len(g.Files)-1)
}

// Request describes one duplicate search.
type Request struct {
	Root    string
	MinSize uint64 // files smaller than this are ignored
}

// Result is the outcome of Find. TotalGroups counts every group found
// before truncation; TotalWastedBytes sums only the returned groups.
type Result struct {
	Root             string
	Groups           []Group
	TotalWastedBytes uint64
	TotalGroups      int
	Verified         bool
	FilesConsidered  uint64
	SkippedFiles     uint64
	Duration         time.Duration
}

// Detector runs duplicate searches.
type Detector struct {
	walker           *scanner.Walker
	minSize          uint64
	maxGroups        int
	workers          int
	verify           bool
	progressReporter *progress.ProgressReporter
}

// New builds a detector from the duplicates section of cfg. Walks use the
// scan exclusion list.
func New(cfg *config.Config) (*Detector, error) {
	minSize, err := cfg.DuplicatesMinSize()
	if err != nil {
		return nil, err
	}

	workers := cfg.Duplicates.Workers
	if workers < 1 {
		workers = 1
	}

	maxGroups := cfg.Duplicates.MaxGroups
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}

	classifier := scanner.NewClassifier(cfg.Duplicates.SkipHidden, cfg.Scan.ExcludeDirs)

	return &Detector{
		walker:    scanner.NewWalker(classifier, workers),
		minSize:   minSize,
		maxGroups: maxGroups,
		workers:   workers,
		verify:    cfg.Duplicates.Verify,
	}, nil
}

// SetProgressReporter sets a custom progress reporter
func (d *Detector) SetProgressReporter(pr *progress.ProgressReporter) {
	d.progressReporter = pr
}

// NewRequest returns a request for root using the configured min size.
func (d *Detector) NewRequest(root string) Request {
	return Request{Root: root, MinSize: d.minSize}
}

type bucket struct {
	size   uint64
	paths  []string
	groups []Group
}

// Find walks req.Root, buckets files by size and fingerprints every bucket
// with two or more members.
func (d *Detector) Find(ctx context.Context, req Request) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	startTime := time.Now()

	if err := scanner.ValidateRoot(req.Root); err != nil {
		return nil, err
	}

	bySize := make(map[uint64][]string)
	var considered uint64

	_, err := d.walker.Walk(ctx, req.Root, func(rec scanner.FileRecord) error {
		if rec.Size < req.MinSize {
			return nil
		}
		considered++
		bySize[rec.Size] = append(bySize[rec.Size], rec.Path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	buckets := make([]*bucket, 0, len(bySize))
	for size, paths := range bySize {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		buckets = append(buckets, &bucket{size: size, paths: paths})
	}

	logger.Debug().
		Uint64("files", considered).
		Int("buckets", len(buckets)).
		Msg("size bucketing complete")

	var skipped, done atomic.Uint64
	total := len(buckets)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for _, b := range buckets {
		g.Go(func() error {
			groups, failed, err := d.groupBucket(gctx, b.size, b.paths)
			if err != nil {
				return err
			}
			b.groups = groups
			skipped.Add(failed)

			d.progressReporter.Report(progress.Update{
				Operation: "duplicates",
				Phase:     progress.PhaseFingerprinting,
				Done:      int(done.Add(1)),
				Total:     total,
				StartTime: startTime,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var groups []Group
	for _, b := range buckets {
		groups = append(groups, b.groups...)
	}
	SortGroups(groups)

	result := &Result{
		Root:            req.Root,
		TotalGroups:     len(groups),
		Verified:        d.verify,
		FilesConsidered: considered,
		SkippedFiles:    skipped.Load(),
	}

	if len(groups) > d.maxGroups {
		groups = groups[:d.maxGroups]
	}
	result.Groups = groups
	for _, group := range groups {
		result.TotalWastedBytes += group.Wasted()
	}
	result.Duration = time.Since(startTime)

	d.progressReporter.Report(progress.Update{
		Operation: "duplicates",
		Phase:     progress.PhaseComplete,
		Files:     int(considered),
		Bytes:     result.TotalWastedBytes,
		StartTime: startTime,
	})

	logger.Info().
		Str("root", req.Root).
		Int("groups", result.TotalGroups).
		Uint64("wasted", result.TotalWastedBytes).
		Bool("verified", d.verify).
		Dur("duration", result.Duration).
		Msg("duplicate search finished")

	return result, nil
}

// groupBucket fingerprints the same-size files in paths. Files that cannot
// be read are dropped and counted.
func (d *Detector) groupBucket(ctx context.Context, size uint64, paths []string) ([]Group, uint64, error) {
	logger := zerolog.Ctx(ctx)

	var failed uint64
	byPrint := make(map[string][]string)
	var order []string

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		fp, err := Fingerprint(path, size)
		if err != nil {
			failed++
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			continue
		}
		if _, ok := byPrint[fp]; !ok {
			order = append(order, fp)
		}
		byPrint[fp] = append(byPrint[fp], path)
	}

	var groups []Group
	for _, fp := range order {
		members := byPrint[fp]
		if len(members) < 2 {
			continue
		}

		if !d.verify {
			groups = append(groups, Group{Fingerprint: fp, Size: size, Files: members})
			continue
		}

		verified, verifyFailed, err := confirm(ctx, size, members)
		if err != nil {
			return nil, 0, err
		}
		failed += verifyFailed
		groups = append(groups, verified...)
	}

	return groups, failed, nil
}

// confirm splits a fingerprint group by full-content xxhash.
func confirm(ctx context.Context, size uint64, paths []string) ([]Group, uint64, error) {
	logger := zerolog.Ctx(ctx)

	var failed uint64
	byHash := make(map[uint64][]string)
	var order []uint64

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		sum, err := utils.HashFile(path)
		if err != nil {
			failed++
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			continue
		}
		if _, ok := byHash[sum]; !ok {
			order = append(order, sum)
		}
		byHash[sum] = append(byHash[sum], path)
	}

	var groups []Group
	for _, sum := range order {
		if members := byHash[sum]; len(members) >= 2 {
			groups = append(groups, Group{Fingerprint: utils.FormatHash(sum), Size: size, Files: members})
		}
	}
	return groups, failed, nil
}

// SortGroups orders groups by wasted bytes, then size, then first path.
func SortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		wi, wj := groups[i].Wasted(), groups[j].Wasted()
		if wi != wj {
			return wi > wj
		}
		if groups[i].Size != groups[j].Size {
			return groups[i].Size > groups[j].Size
		}
		return groups[i].Files[0] < groups[j].Files[0]
	})
}
