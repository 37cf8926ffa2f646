package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/ui/components"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	uiutils "github.com/fenilsonani/diskscope/internal/ui/utils"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// SafetyLevel represents the safety level of a category
type SafetyLevel int

const (
	SafetyLow SafetyLevel = iota
	SafetyMedium
	SafetyHigh
)

func (s SafetyLevel) String() string {
	switch s {
	case SafetyHigh:
		return "SAFE"
	case SafetyMedium:
		return "CAUTION"
	default:
		return "RISKY"
	}
}

// CategoryItem is one selectable sized category.
type CategoryItem struct {
	Report      junk.Report
	Selected    bool
	SafetyLevel SafetyLevel
	Recommended bool
}

// CategoryViewModel handles category selection
type CategoryViewModel struct {
	items  []CategoryItem
	cursor int
	info   *components.InfoPanel
	notice string
	width  int
	height int
}

// NewCategoryViewModel lists reports in the order given, preselecting the
// categories that regenerate on their own.
func NewCategoryViewModel(reports []junk.Report, width, height int) *CategoryViewModel {
	items := make([]CategoryItem, 0, len(reports))
	for _, r := range reports {
		safety, recommended := categoryDefaults(r.Category)
		items = append(items, CategoryItem{
			Report:      r,
			Selected:    recommended,
			SafetyLevel: safety,
			Recommended: recommended,
		})
	}

	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return &CategoryViewModel{
		items:  items,
		width:  width,
		height: height,
	}
}

// categoryDefaults returns the safety level and whether the category is
// selected up front.
func categoryDefaults(c junk.Category) (SafetyLevel, bool) {
	switch c {
	case junk.SystemCache, junk.DerivedData:
		return SafetyHigh, true
	case junk.TempFiles, junk.AppLogs, junk.PackageCaches:
		return SafetyMedium, false
	default:
		// Emptying the trash cannot be undone.
		return SafetyLow, false
	}
}

// Items returns the categories with their current selection.
func (m *CategoryViewModel) Items() []CategoryItem {
	return m.items
}

// Update handles messages
func (m *CategoryViewModel) Update(msg tea.Msg) (*CategoryViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.refreshInfo()
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			m.refreshInfo()
		case "g", "home":
			m.cursor = 0
			m.refreshInfo()
		case "G", "end":
			if len(m.items) > 0 {
				m.cursor = len(m.items) - 1
			}
			m.refreshInfo()
		case "space", " ":
			if m.cursor < len(m.items) {
				m.items[m.cursor].Selected = !m.items[m.cursor].Selected
			}
		case "x":
			if m.cursor < len(m.items) {
				m.items[m.cursor].Selected = !m.items[m.cursor].Selected
				if m.cursor < len(m.items)-1 {
					m.cursor++
				}
			}
			m.refreshInfo()
		case "ctrl+a":
			for i := range m.items {
				m.items[i].Selected = true
			}
		case "ctrl+d":
			for i := range m.items {
				m.items[i].Selected = false
			}
		case "i":
			if m.info != nil && m.info.IsVisible() {
				m.info = nil
			} else if m.cursor < len(m.items) {
				m.info = m.infoPanel(m.items[m.cursor])
			}
		case "tab", "l", "right":
			if m.cursor < len(m.items) {
				report := m.items[m.cursor].Report
				return m, func() tea.Msg { return BrowseCategoryMsg{Report: report} }
			}
		case "enter":
			return m, m.proceedToConfirmation()
		}
	}

	return m, nil
}

func (m *CategoryViewModel) infoPanel(item CategoryItem) *components.InfoPanel {
	panel := components.CategoryInfoPanel(item.Report, item.SafetyLevel.String(), m.width)
	panel.SetVisible(true)
	return panel
}

// refreshInfo keeps an open info panel on the highlighted category.
func (m *CategoryViewModel) refreshInfo() {
	if m.info != nil && m.cursor < len(m.items) {
		m.info = m.infoPanel(m.items[m.cursor])
	}
}

func (m *CategoryViewModel) selection() (count int, size uint64) {
	for _, item := range m.items {
		if item.Selected {
			count++
			size += item.Report.Size
		}
	}
	return count, size
}

// View renders the category selection view
func (m *CategoryViewModel) View() string {
	var b strings.Builder

	b.WriteString(uiutils.GetSizeWarningBanner(m.width, m.height))
	b.WriteString(styles.TitleStyle.Render("Select categories to clean"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(styles.DimStyle.Render("No junk categories found."))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("> ")
		}

		safetyStyle := styles.SafetyStyle(item.SafetyLevel.String())
		sizeStyle := styles.SizeStyle(item.Report.Size)

		line := fmt.Sprintf("%s%s %s %s",
			cursor,
			styles.Checkbox(item.Selected),
			styles.CategoryStyle.Render(fmt.Sprintf("%-24s", item.Report.Category.Name())),
			safetyStyle.Render(fmt.Sprintf("%-8s", item.SafetyLevel)),
		)
		line += fmt.Sprintf(" %s %s",
			sizeStyle.Render(fmt.Sprintf("%10s", utils.HumanSize(item.Report.Size))),
			styles.DimStyle.Render(fmt.Sprintf("(%d entries)", len(item.Report.Items))),
		)
		if item.Recommended {
			line += " " + styles.SuccessStyle.Render("recommended")
		}

		b.WriteString(line)
		b.WriteString("\n")

		if i == m.cursor && m.width >= uiutils.MinTerminalWidth {
			desc := uiutils.TruncateString(item.Report.Category.Description(), m.width-8)
			b.WriteString(styles.HelpStyle.Render("      " + desc))
			b.WriteString("\n")
		}
	}

	if m.info != nil {
		b.WriteString("\n")
		b.WriteString(m.info.Render())
		b.WriteString("\n")
	}

	count, size := m.selection()
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Selected: %d categories, %s", count, utils.HumanSize(size))))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.WarningStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	statusBar := components.NewStatusBar("Category Selection")
	statusBar.SetSelection(count, len(m.items), size)
	statusBar.SetShortcuts(
		components.Shortcut{Key: "space", Desc: "toggle"},
		components.Shortcut{Key: "enter", Desc: "continue"},
		components.Shortcut{Key: "tab", Desc: "entries"},
		components.Shortcut{Key: "i", Desc: "details"},
		components.Shortcut{Key: "?", Desc: "help"},
		components.Shortcut{Key: "q", Desc: "quit"},
	)
	b.WriteString(statusBar.Render(m.width))

	return b.String()
}

func (m *CategoryViewModel) proceedToConfirmation() tea.Cmd {
	var selected []CategoryItem
	for _, item := range m.items {
		if item.Selected {
			selected = append(selected, item)
		}
	}

	if len(selected) == 0 {
		m.notice = "Select at least one category first."
		return nil
	}

	return func() tea.Msg {
		return CategoriesSelectedMsg{Selected: selected}
	}
}
