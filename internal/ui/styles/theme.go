package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#A78BFA")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#3B82F6")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F3F4F6")
	TextDim   = lipgloss.Color("#9CA3AF")
	Border    = lipgloss.Color("#4B5563")
	BgDark    = lipgloss.Color("#1F2937")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	FileSizeStyle = lipgloss.NewStyle().
			Foreground(Warning)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgDark).
			Padding(0, 1)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// Category list styles, graded by how much a category holds and how safe
// it is to clear.
var (
	checkedStyle   = lipgloss.NewStyle().Foreground(Success)
	uncheckedStyle = lipgloss.NewStyle().Foreground(Muted)

	hugeSizeStyle  = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	largeSizeStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	smallSizeStyle = lipgloss.NewStyle().Foreground(TextDim).Bold(true)

	safeStyle    = lipgloss.NewStyle().Foreground(Success)
	cautionStyle = lipgloss.NewStyle().Foreground(Warning)
	riskyStyle   = lipgloss.NewStyle().Foreground(Danger)
)

// Checkbox renders a selection box.
func Checkbox(checked bool) string {
	if checked {
		return checkedStyle.Render("[x]")
	}
	return uncheckedStyle.Render("[ ]")
}

// SizeStyle grades a byte count: a gigabyte or more is red, 100 MB or
// more amber, anything smaller muted.
func SizeStyle(bytes uint64) lipgloss.Style {
	switch {
	case bytes >= 1<<30:
		return hugeSizeStyle
	case bytes >= 100<<20:
		return largeSizeStyle
	default:
		return smallSizeStyle
	}
}

// SafetyStyle maps a safety label to its style; unknown labels are risky.
func SafetyStyle(label string) lipgloss.Style {
	switch label {
	case "SAFE":
		return safeStyle
	case "CAUTION":
		return cautionStyle
	default:
		return riskyStyle
	}
}
