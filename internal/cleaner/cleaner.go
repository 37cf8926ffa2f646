// Package cleaner removes the top-level entries of directories, one entry
// at a time, behind the protected-path validator.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/scanner"
	"github.com/fenilsonani/diskscope/internal/security"
)

// DefaultMaxErrors caps the errors kept in a CleanResult.
const DefaultMaxErrors = 10

// readDir lists a target; tests replace it to simulate partial listings.
var readDir = os.ReadDir

// Target is one directory whose entries are removed, labelled with the
// category it belongs to.
type Target struct {
	Category string
	Dir      string
}

// CleanResult represents the result of a clean operation. Errors holds at
// most the configured number of failures; ErrorCount counts all of them.
type CleanResult struct {
	FreedBytes   uint64
	DeletedCount int
	Errors       []*DeletionError
	ErrorCount   int
	DryRun       bool
}

// Messages returns the user-facing text of the kept errors.
func (r *CleanResult) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.UserMessage())
	}
	return msgs
}

func (r *CleanResult) addError(err *DeletionError, max int) {
	r.ErrorCount++
	if len(r.Errors) < max {
		r.Errors = append(r.Errors, err)
	}
}

// Cleaner handles file deletion with safeguards
type Cleaner struct {
	validator        *security.PathValidator
	permissions      *PermissionChecker
	dryRun           bool
	maxErrors        int
	manifest         *DeletionManifest
	progressReporter *progress.ProgressReporter
}

// New creates a Cleaner. maxErrors <= 0 uses DefaultMaxErrors.
func New(validator *security.PathValidator, dryRun bool, maxErrors int) *Cleaner {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Cleaner{
		validator:   validator,
		permissions: NewPermissionChecker(),
		dryRun:      dryRun,
		maxErrors:   maxErrors,
		manifest:    NewDeletionManifest(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (c *Cleaner) SetProgressReporter(pr *progress.ProgressReporter) {
	c.progressReporter = pr
}

// GetManifest returns the deletion manifest
func (c *Cleaner) GetManifest() *DeletionManifest {
	return c.manifest
}

// Clean removes every top-level entry of each target directory. A
// directory entry is removed as a unit. Entries are sized just before
// their removal and a failure on one never stops the rest. A target that
// does not exist is skipped. On cancellation the partial result is
// returned with ctx's error.
func (c *Cleaner) Clean(ctx context.Context, targets []Target) (*CleanResult, error) {
	logger := zerolog.Ctx(ctx)
	result := &CleanResult{DryRun: c.dryRun}
	startTime := time.Now()

	for _, target := range targets {
		// A failed listing may still carry the entries read before the error.
		entries, err := readDir(target.Dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Debug().Err(err).Str("path", target.Dir).Int("listed", len(entries)).Msg("cannot list clean target")
			}
			if len(entries) == 0 {
				continue
			}
		}
		parent, _ := os.Stat(target.Dir)

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			path := filepath.Join(target.Dir, entry.Name())
			c.reportProgress(path, result, startTime)

			size, delErr := c.removeEntry(ctx, path, parent)
			if delErr != nil {
				logger.Debug().Err(delErr).Str("path", path).Msg("deletion failed")
				result.addError(delErr, c.maxErrors)
				continue
			}

			c.manifest.Add(path, size, target.Category)
			result.FreedBytes += size
			result.DeletedCount++
		}
	}

	c.progressReporter.Report(progress.Update{
		Operation: "clean",
		Phase:     progress.PhaseComplete,
		Files:     result.DeletedCount,
		Bytes:     result.FreedBytes,
		StartTime: startTime,
	})

	logger.Info().
		Int("deleted", result.DeletedCount).
		Uint64("freed", result.FreedBytes).
		Int("errors", result.ErrorCount).
		Bool("dry_run", c.dryRun).
		Msg("clean finished")

	return result, nil
}

// removeEntry validates, sizes and removes path, an entry of the directory
// described by parent, returning the bytes it held. Special files and
// entries the user cannot unlink are reported without an attempt.
func (c *Cleaner) removeEntry(ctx context.Context, path string, parent os.FileInfo) (uint64, *DeletionError) {
	if err := c.validator.ValidatePathForDeletion(path); err != nil {
		return 0, CategorizeError(path, fmt.Errorf("%w: %v", ErrUnsafePath, err))
	}

	// Lstat so a symlinked entry is removed as a link, never followed.
	info, err := os.Lstat(path)
	if err != nil {
		return 0, CategorizeError(path, err)
	}

	if err := SpecialFileError(info); err != nil {
		return 0, CategorizeError(path, err)
	}
	if !c.permissions.CanDelete(parent, info) {
		return 0, CategorizeError(path, &os.PathError{Op: "remove", Path: path, Err: os.ErrPermission})
	}

	// Unreadable subtrees size as what could be read.
	size, _ := scanner.TreeSize(ctx, path)

	if c.dryRun {
		return size, nil
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return 0, CategorizeError(path, err)
	}

	return size, nil
}

func (c *Cleaner) reportProgress(path string, result *CleanResult, startTime time.Time) {
	c.progressReporter.Report(progress.Update{
		Operation:   "clean",
		Phase:       progress.PhaseCleaning,
		CurrentPath: path,
		Done:        result.DeletedCount,
		Bytes:       result.FreedBytes,
		StartTime:   startTime,
	})
}

// DeletionManifest keeps track of deleted entries
type DeletionManifest struct {
	Entries   []DeletedEntry
	Timestamp time.Time
	TotalSize uint64
}

// DeletedEntry represents information about a deleted entry
type DeletedEntry struct {
	Path      string
	Size      uint64
	Category  string
	DeletedAt time.Time
}

// NewDeletionManifest creates a new DeletionManifest
func NewDeletionManifest() *DeletionManifest {
	return &DeletionManifest{
		Entries:   []DeletedEntry{},
		Timestamp: time.Now(),
	}
}

// Add adds an entry to the manifest
func (m *DeletionManifest) Add(path string, size uint64, category string) {
	m.Entries = append(m.Entries, DeletedEntry{
		Path:      path,
		Size:      size,
		Category:  category,
		DeletedAt: time.Now(),
	})
	m.TotalSize += size
}

// Save saves the manifest to a file
func (m *DeletionManifest) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Deletion Manifest\n")
	fmt.Fprintf(file, "Created: %s\n", m.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(file, "Total Size: %d bytes\n", m.TotalSize)
	fmt.Fprintf(file, "Total Entries: %d\n\n", len(m.Entries))

	for _, e := range m.Entries {
		fmt.Fprintf(file, "%s | %d bytes | %s | %s\n",
			e.Path, e.Size, e.Category, e.DeletedAt.Format(time.RFC3339))
	}

	return nil
}
