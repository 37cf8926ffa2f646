package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	uiutils "github.com/fenilsonani/diskscope/internal/ui/utils"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// RiskLevel represents the risk level of a deletion operation
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// highRiskBytes is the selection size that makes any deletion high risk.
const highRiskBytes = 10 << 30

const (
	buttonYes = iota
	buttonReview
	buttonCancel
)

// ConfirmViewModel handles the confirmation screen
type ConfirmViewModel struct {
	items     []CategoryItem
	cursor    int
	riskLevel RiskLevel
	dryRun    bool
	width     int
	height    int
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(items []CategoryItem, dryRun bool, width, height int) *ConfirmViewModel {
	risk := calculateRiskLevel(items)

	cursor := buttonYes
	if risk == RiskHigh {
		cursor = buttonCancel
	}

	return &ConfirmViewModel{
		items:     items,
		cursor:    cursor,
		riskLevel: risk,
		dryRun:    dryRun,
		width:     width,
		height:    height,
	}
}

// calculateRiskLevel grades a selection: the trash or a very large total
// is high, anything beyond self-regenerating caches is medium.
func calculateRiskLevel(items []CategoryItem) RiskLevel {
	var total uint64
	medium := len(items) > 2
	for _, item := range items {
		total += item.Report.Size
		if item.Report.Category == junk.Trash {
			return RiskHigh
		}
		if item.SafetyLevel != SafetyHigh {
			medium = true
		}
	}

	switch {
	case total >= highRiskBytes:
		return RiskHigh
	case medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// IDs returns the identifiers of the confirmed categories.
func (m *ConfirmViewModel) IDs() []string {
	ids := make([]string, 0, len(m.items))
	for _, item := range m.items {
		ids = append(ids, item.Report.Category.ID())
	}
	return ids
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.cursor > buttonYes {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < buttonCancel {
				m.cursor++
			}
		case "tab":
			m.cursor = (m.cursor + 1) % 3
		case "enter":
			switch m.cursor {
			case buttonYes:
				return m, confirmed
			case buttonReview:
				return m, review
			default:
				return m, tea.Quit
			}
		case "y":
			return m, confirmed
		case "e":
			return m, review
		case "n":
			return m, tea.Quit
		}
	}

	return m, nil
}

func confirmed() tea.Msg { return ConfirmedMsg{} }

func review() tea.Msg { return ReviewSelectionMsg{} }

// View renders the confirmation view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	b.WriteString(uiutils.GetSizeWarningBanner(m.width, m.height))
	b.WriteString(styles.TitleStyle.Render("Confirm deletion"))
	b.WriteString("\n\n")

	var total uint64
	var entries int
	for _, item := range m.items {
		total += item.Report.Size
		entries += len(item.Report.Items)
	}

	verb := "delete"
	if m.dryRun {
		verb = "simulate deleting"
	}
	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to %s %d entries (%s)", verb, entries, utils.HumanSize(total))))
	b.WriteString("\n\n")

	b.WriteString(styles.SubtitleStyle.Render("Breakdown:"))
	b.WriteString("\n")
	for _, item := range m.items {
		b.WriteString(fmt.Sprintf("  %s %4d entries (%s)\n",
			styles.CategoryStyle.Render(fmt.Sprintf("%-24s", item.Report.Category.Name()+":")),
			len(item.Report.Items),
			styles.FileSizeStyle.Render(utils.HumanSize(item.Report.Size))))
	}
	b.WriteString("\n")

	text, render := m.riskDisplay()
	b.WriteString("Risk level: " + render(text))
	b.WriteString("\n\n")

	if m.dryRun {
		b.WriteString(styles.InfoStyle.Render("Dry run: nothing will be removed."))
	} else {
		b.WriteString(styles.WarningStyle.Render("This action cannot be undone!"))
	}
	b.WriteString("\n\n")

	buttons := []string{"[ Yes, delete ]", "[ Review ]", "[ Cancel ]"}
	buttons[m.cursor] = styles.HighlightStyle.Render(buttons[m.cursor])
	b.WriteString(strings.Join(buttons, "  "))
	b.WriteString("\n\n")

	helpText := "y:confirm  e:edit  n:cancel  left/right:navigate"
	if m.width < 60 {
		helpText = "y:yes  e:edit  n:no"
	}
	b.WriteString(styles.HelpStyle.Render(helpText))

	return b.String()
}

func (m *ConfirmViewModel) riskDisplay() (string, func(...string) string) {
	switch m.riskLevel {
	case RiskHigh:
		return "HIGH (includes the trash or a very large selection)", styles.ErrorStyle.Render
	case RiskMedium:
		return "MEDIUM (includes data that may still be in use)", styles.WarningStyle.Render
	default:
		return "LOW (regenerating caches only)", styles.SuccessStyle.Render
	}
}
