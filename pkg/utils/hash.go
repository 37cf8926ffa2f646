package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HashFile returns the xxhash64 digest of the file's full content.
func HashFile(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, file); err != nil {
		return 0, err
	}

	return digest.Sum64(), nil
}

// FormatHash renders a 64-bit digest as fixed-width lowercase hex.
func FormatHash(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
