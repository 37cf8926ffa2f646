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

// BrowserViewModel lists the top-level entries of one category. Cleaning
// always removes every entry of a selected category, so the list is
// read-only.
type BrowserViewModel struct {
	report   junk.Report
	cursor   int
	offset   int
	pageSize int
	width    int
	height   int
}

// NewBrowserViewModel creates a new browser view model
func NewBrowserViewModel(report junk.Report, width, height int) *BrowserViewModel {
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	return &BrowserViewModel{
		report:   report,
		pageSize: uiutils.CalculatePageSize(height),
		width:    width,
		height:   height,
	}
}

// Update handles messages
func (m *BrowserViewModel) Update(msg tea.Msg) (*BrowserViewModel, tea.Cmd) {
	n := len(m.report.Items)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pageSize = uiutils.CalculatePageSize(msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "ctrl+f", "pgdown":
			m.cursor = min(m.cursor+m.pageSize, max(n-1, 0))
		case "ctrl+b", "pgup":
			m.cursor = max(m.cursor-m.pageSize, 0)
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(n-1, 0)
		}
	}

	m.offset, _ = uiutils.VisibleWindow(m.cursor, m.offset, m.pageSize, n)
	return m, nil
}

// View renders the browser view
func (m *BrowserViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("%s (%s)",
		m.report.Category.Name(), utils.HumanSize(m.report.Size))))
	b.WriteString("\n\n")

	if len(m.report.Items) == 0 {
		b.WriteString(styles.DimStyle.Render("Nothing here."))
		b.WriteString("\n")
	}

	start, end := uiutils.VisibleWindow(m.cursor, m.offset, m.pageSize, len(m.report.Items))
	pathWidth := m.width - 16
	if pathWidth < 20 {
		pathWidth = 20
	}

	for i := start; i < end; i++ {
		item := m.report.Items[i]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("> ")
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n",
			cursor,
			styles.FileSizeStyle.Render(fmt.Sprintf("%10s", utils.HumanSize(item.Size))),
			styles.FilePathStyle.Render(uiutils.TruncatePath(item.Path, pathWidth)),
		))
	}

	b.WriteString("\n")
	statusBar := components.NewStatusBar("Entries")
	statusBar.SetSelection(0, 0, m.report.Size)
	statusBar.SetShortcuts(
		components.Shortcut{Key: "up/down", Desc: "move"},
		components.Shortcut{Key: "esc", Desc: "back"},
		components.Shortcut{Key: "q", Desc: "quit"},
	)
	b.WriteString(statusBar.Render(m.width))

	return b.String()
}
