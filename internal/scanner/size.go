package scanner

import (
	"context"
	"os"
)

var sizeClassifier = NewClassifier(false, nil)

// TreeSize returns the bytes held by regular files at or below path. A
// regular file counts itself; symlinks and special files count zero.
// Unreadable subdirectories are skipped.
func TreeSize(ctx context.Context, path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}

	switch {
	case info.Mode().IsRegular():
		return uint64(info.Size()), nil
	case !info.IsDir():
		return 0, nil
	}

	var total uint64
	_, err = NewWalker(sizeClassifier, 1).Walk(ctx, path, func(rec FileRecord) error {
		total += rec.Size
		return nil
	})
	return total, err
}
