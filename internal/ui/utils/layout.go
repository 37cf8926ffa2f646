package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/diskscope/internal/ui/styles"
)

const (
	// MinTerminalWidth is the minimum recommended terminal width
	MinTerminalWidth = 80
	// MinTerminalHeight is the minimum recommended terminal height
	MinTerminalHeight = 24

	reservedLines = 10
	minPageSize   = 5
)

// TruncatePath shortens path to maxWidth, keeping the file name and as
// much of the leading directory as fits.
func TruncatePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}
	if maxWidth < 10 {
		return "..."
	}

	dir, file := filepath.Split(path)
	if len(file) > maxWidth-4 {
		return "..." + file[len(file)-(maxWidth-4):]
	}

	available := maxWidth - len(file) - 4
	dir = filepath.Clean(dir)
	if available < 1 {
		return ".../" + file
	}
	if len(dir) > available {
		dir = dir[:available]
	}
	return dir + ".../" + file
}

// CalculatePageSize returns how many list rows fit below the title,
// help line and status bar.
func CalculatePageSize(terminalHeight int) int {
	pageSize := terminalHeight - reservedLines
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	return pageSize
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size
func IsTerminalTooSmall(width, height int) bool {
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a warning banner if terminal is too small.
// Unknown sizes (zero) never warn.
func GetSizeWarningBanner(width, height int) string {
	if width == 0 || height == 0 || !IsTerminalTooSmall(width, height) {
		return ""
	}

	warning := fmt.Sprintf("Terminal too small, %dx%d or larger recommended (current: %dx%d)",
		MinTerminalWidth, MinTerminalHeight, width, height)
	return styles.WarningStyle.Render(warning) + "\n\n"
}

// VisibleWindow returns the [start, end) range of a list of n rows that
// keeps cursor on screen with pageSize rows, given the previous offset.
func VisibleWindow(cursor, offset, pageSize, n int) (start, end int) {
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+pageSize {
		offset = cursor - pageSize + 1
	}
	if offset < 0 {
		offset = 0
	}
	end = offset + pageSize
	if end > n {
		end = n
	}
	return offset, end
}

// TruncateString truncates a string to maxLen, adding ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return "..."
	}
	return strings.TrimSpace(s[:maxLen-3]) + "..."
}
