package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog"
)

// ErrInvalidRoot is returned when a walk root is missing, not a directory,
// or unreadable.
var ErrInvalidRoot = errors.New("invalid scan root")

// WalkFunc receives every recorded file. Returning an error stops the walk.
type WalkFunc func(FileRecord) error

// WalkStats counts directories visited and entries that could not be read.
type WalkStats struct {
	Dirs         uint64
	SkippedDirs  uint64
	SkippedFiles uint64
}

// Walker streams FileRecords for every regular file under a root without
// crossing skipped entries or symlinks.
type Walker struct {
	classifier *Classifier
	workers    int
}

// NewWalker returns a walker. workers <= 1 walks sequentially in
// depth-first lexical order; larger values walk subtrees in parallel with
// fastwalk and hand records to fn from a single goroutine.
func NewWalker(classifier *Classifier, workers int) *Walker {
	return &Walker{classifier: classifier, workers: workers}
}

// ValidateRoot checks that root exists, is a directory and can be listed.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrInvalidRoot, root)
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	dir, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("%w: %s cannot be read: %v", ErrInvalidRoot, root, err)
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s cannot be read: %v", ErrInvalidRoot, root, err)
	}

	return nil
}

// Walk visits root. The root itself is never classified. Unreadable
// directories and files are skipped and counted; ctx is checked before
// every directory.
func (w *Walker) Walk(ctx context.Context, root string, fn WalkFunc) (WalkStats, error) {
	if w.workers > 1 {
		return w.walkParallel(ctx, root, fn)
	}
	return w.walkSequential(ctx, root, fn)
}

func (w *Walker) walkSequential(ctx context.Context, root string, fn WalkFunc) (WalkStats, error) {
	logger := zerolog.Ctx(ctx)

	var stats WalkStats
	stack := []string{root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// ReadDir returns the entries it managed to read alongside the error.
		entries, err := os.ReadDir(dir)
		if err != nil {
			stats.SkippedDirs++
			logger.Debug().Err(err).Str("path", dir).Msg("skipping unreadable directory")
			if len(entries) == 0 {
				continue
			}
		}
		stats.Dirs++

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			switch w.classifier.Classify(entry.Name(), entry.Type()) {
			case Descend:
				subdirs = append(subdirs, path)
			case Record:
				info, err := entry.Info()
				if err != nil || !info.Mode().IsRegular() {
					stats.SkippedFiles++
					continue
				}
				if err := fn(newRecord(path, info)); err != nil {
					return stats, err
				}
			}
		}

		// Push in reverse so the lexically first subdirectory is visited next.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return stats, nil
}

func (w *Walker) walkParallel(parent context.Context, root string, fn WalkFunc) (WalkStats, error) {
	logger := zerolog.Ctx(parent)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var dirs, skippedDirs, skippedFiles atomic.Uint64
	records := make(chan FileRecord, 256)
	consumed := make(chan error, 1)

	// Single consumer: fn never runs concurrently with itself.
	go func() {
		var err error
		for rec := range records {
			if err != nil {
				continue
			}
			if err = fn(rec); err != nil {
				cancel()
			}
		}
		consumed <- err
	}()

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: w.workers,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root || d == nil || d.IsDir() {
				skippedDirs.Add(1)
			} else {
				skippedFiles.Add(1)
			}
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == root {
			dirs.Add(1)
			return nil
		}

		switch w.classifier.Classify(d.Name(), d.Type()) {
		case Descend:
			dirs.Add(1)
		case Record:
			info, err := d.Info()
			if err != nil || !info.Mode().IsRegular() {
				skippedFiles.Add(1)
				return nil
			}
			select {
			case records <- newRecord(path, info):
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			if d.IsDir() {
				return filepath.SkipDir
			}
		}
		return nil
	})

	close(records)
	fnErr := <-consumed

	stats := WalkStats{
		Dirs:         dirs.Load(),
		SkippedDirs:  skippedDirs.Load(),
		SkippedFiles: skippedFiles.Load(),
	}

	switch {
	case fnErr != nil:
		return stats, fnErr
	case parent.Err() != nil:
		return stats, parent.Err()
	case walkErr != nil:
		return stats, walkErr
	}
	return stats, nil
}

func newRecord(path string, info fs.FileInfo) FileRecord {
	return FileRecord{
		Path:      path,
		Size:      uint64(info.Size()),
		Extension: ExtensionOf(path),
		ModTime:   info.ModTime(),
	}
}
