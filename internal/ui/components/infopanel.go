package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	uiutils "github.com/fenilsonani/diskscope/internal/ui/utils"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// maxPanelEntries is how many of a category's largest entries the panel lists.
const maxPanelEntries = 5

// InfoPanel represents a contextual information panel
type InfoPanel struct {
	title   string
	content []InfoItem
	visible bool
	width   int
}

// InfoItem represents a single piece of information
type InfoItem struct {
	Label string
	Value string
}

// NewInfoPanel creates a new info panel
func NewInfoPanel(title string, width int) *InfoPanel {
	return &InfoPanel{
		title: title,
		width: width,
	}
}

// AddItem adds an information item to the panel
func (p *InfoPanel) AddItem(label, value string) {
	p.content = append(p.content, InfoItem{Label: label, Value: value})
}

// Items returns the panel rows.
func (p *InfoPanel) Items() []InfoItem {
	return p.content
}

func (p *InfoPanel) SetVisible(visible bool) {
	p.visible = visible
}

func (p *InfoPanel) IsVisible() bool {
	return p.visible
}

func (p *InfoPanel) Toggle() {
	p.visible = !p.visible
}

// Render renders the info panel, or nothing when hidden or empty.
func (p *InfoPanel) Render() string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	panelWidth := p.width / 2
	if panelWidth < 40 {
		panelWidth = 40
	}
	if panelWidth > 80 {
		panelWidth = 80
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Underline(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Bold(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.title))
	content.WriteString("\n\n")

	for i, item := range p.content {
		content.WriteString(labelStyle.Render(item.Label) + ": " + item.Value)
		if i < len(p.content)-1 {
			content.WriteString("\n")
		}
	}

	content.WriteString("\n\n")
	content.WriteString(styles.HelpStyle.Render("Press 'i' to close"))

	return styles.PanelStyle.Width(panelWidth).Render(content.String())
}

// CategoryInfoPanel describes one sized junk category and its largest
// entries.
func CategoryInfoPanel(report junk.Report, safety string, width int) *InfoPanel {
	panel := NewInfoPanel(report.Category.Name(), width)

	panel.AddItem("ID", report.Category.ID())
	panel.AddItem("Description", report.Category.Description())
	panel.AddItem("Entries", strconv.Itoa(len(report.Items)))
	panel.AddItem("Total Size", utils.HumanSize(report.Size))
	panel.AddItem("Safety", safety)

	for i, item := range report.Items {
		if i == maxPanelEntries {
			break
		}
		panel.AddItem(utils.HumanSize(item.Size), uiutils.TruncatePath(item.Path, 50))
	}

	return panel
}
