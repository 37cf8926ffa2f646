package scanner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fenilsonani/diskscope/internal/config"
	"github.com/fenilsonani/diskscope/internal/progress"
)

// progressEvery is how many files pass between walking updates.
const progressEvery = 512

// Scanner runs the single-pass scan: one walk feeding the top-K tracker,
// the extension aggregator and the staleness filter.
type Scanner struct {
	config           *config.Config
	walker           *Walker
	progressReporter *progress.ProgressReporter
	now              func() time.Time
}

// New creates a new Scanner
func New(cfg *config.Config) *Scanner {
	classifier := NewClassifier(cfg.Scan.SkipHidden, cfg.Scan.ExcludeDirs)
	return &Scanner{
		config: cfg,
		walker: NewWalker(classifier, cfg.Scan.Workers),
		now:    time.Now,
	}
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.ProgressReporter) {
	s.progressReporter = pr
}

// NewRequest builds a request for root from the configured scan defaults.
func (s *Scanner) NewRequest(root string) (ScanRequest, error) {
	minSize, err := s.config.ScanMinSize()
	if err != nil {
		return ScanRequest{}, err
	}

	req := NewScanRequest(root)
	req.Limit = s.config.Scan.Limit
	req.StaleDays = s.config.Scan.StaleDays
	req.MinSize = minSize
	req.MaxStaleFiles = s.config.Scan.MaxStaleFiles
	return req, nil
}

// Scan walks req.Root once. An invalid root fails with ErrInvalidRoot and
// no partial result; unreadable entries below it are skipped and counted.
func (s *Scanner) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := ValidateRoot(req.Root); err != nil {
		return nil, err
	}

	start := s.now()
	top := NewTopKTracker(req.Limit)
	exts := NewExtensionAggregator()
	stale := NewStalenessFilter(start, req.StaleDays, req.MaxStaleFiles)

	var summary ScanSummary
	startTime := time.Now()

	stats, err := s.walker.Walk(ctx, req.Root, func(rec FileRecord) error {
		summary.TotalFiles++
		summary.TotalBytes += rec.Size
		exts.Add(rec)

		if rec.Size >= req.MinSize {
			top.Offer(rec)
			stale.Offer(rec)
		}

		if summary.TotalFiles%progressEvery == 0 {
			s.progressReporter.Report(progress.Update{
				Operation:   "scan",
				Phase:       progress.PhaseWalking,
				CurrentPath: rec.Path,
				Files:       int(summary.TotalFiles),
				Bytes:       summary.TotalBytes,
				StartTime:   startTime,
			})
		}
		return nil
	})
	if err != nil {
		s.progressReporter.Report(progress.Update{
			Operation: "scan",
			Phase:     progress.PhaseError,
			StartTime: startTime,
			Error:     err,
		})
		return nil, err
	}

	summary.TotalDirs = stats.Dirs
	summary.SkippedDirs = stats.SkippedDirs
	summary.SkippedFiles = stats.SkippedFiles

	result := &ScanResult{
		Root:           req.Root,
		Summary:        summary,
		TopFiles:       top.Sorted(),
		ByExtension:    exts.Stats(),
		StaleFiles:     stale.Files(),
		StaleTruncated: stale.Truncated(),
		StaleCutoff:    stale.Cutoff(),
		Duration:       time.Since(startTime),
	}

	s.progressReporter.Report(progress.Update{
		Operation: "scan",
		Phase:     progress.PhaseComplete,
		Files:     int(summary.TotalFiles),
		Bytes:     summary.TotalBytes,
		StartTime: startTime,
	})

	logger.Info().
		Str("root", req.Root).
		Uint64("files", summary.TotalFiles).
		Uint64("bytes", summary.TotalBytes).
		Uint64("skipped_dirs", summary.SkippedDirs).
		Dur("duration", result.Duration).
		Msg("scan finished")

	return result, nil
}
