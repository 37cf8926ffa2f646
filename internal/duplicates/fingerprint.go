package duplicates

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
)

// PrefixSize is the most bytes read from a file to build its fingerprint.
const PrefixSize = 4096

// SampleOffsets returns the positions sampled from a prefix of n bytes:
// first, quarter, half, three quarters and last, without repeats.
func SampleOffsets(n int) []int {
	if n <= 0 {
		return nil
	}

	candidates := [...]int{0, n / 4, n / 2, 3 * n / 4, n - 1}
	offsets := make([]int, 0, len(candidates))
	for _, off := range candidates {
		if len(offsets) > 0 && offsets[len(offsets)-1] == off {
			continue
		}
		offsets = append(offsets, off)
	}
	return offsets
}

// Fingerprint reads up to PrefixSize bytes of path and returns the size
// followed by the hex of the sampled bytes. Equal fingerprints do not
// imply equal content.
func Fingerprint(path string, size uint64) (string, error) {
	n := PrefixSize
	if size < uint64(n) {
		n = int(size)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	prefix := make([]byte, n)
	if _, err := io.ReadFull(file, prefix); err != nil {
		return "", fmt.Errorf("read prefix of %s: %w", path, err)
	}

	offsets := SampleOffsets(n)
	sampled := make([]byte, len(offsets))
	for i, off := range offsets {
		sampled[i] = prefix[off]
	}

	return strconv.FormatUint(size, 10) + ":" + hex.EncodeToString(sampled), nil
}
