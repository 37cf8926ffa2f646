package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// SummaryViewModel handles the summary/results view
type SummaryViewModel struct {
	result *cleaner.CleanResult
	err    error
}

// NewSummaryViewModel shows result. err is set when cleaning was cut
// short and result is partial.
func NewSummaryViewModel(result *cleaner.CleanResult, err error) *SummaryViewModel {
	return &SummaryViewModel{result: result, err: err}
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		return m, tea.Quit
	}
	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder
	r := m.result

	b.WriteString(styles.TitleStyle.Render("Cleanup summary"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.WarningStyle.Render("Stopped early: " + m.err.Error()))
		b.WriteString("\n")
	}

	if r.DryRun {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("Would delete %d entries", r.DeletedCount)))
		b.WriteString("\n")
		b.WriteString(styles.BoldStyle.Render("Would free: " + utils.HumanSize(r.FreedBytes)))
	} else {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("Deleted %d entries", r.DeletedCount)))
		b.WriteString("\n")
		b.WriteString(styles.BoldStyle.Render("Space freed: " + utils.HumanSize(r.FreedBytes)))
	}
	b.WriteString("\n\n")

	if r.ErrorCount > 0 {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("%d entries could not be removed", r.ErrorCount)))
		b.WriteString("\n")
		for _, msg := range r.Messages() {
			b.WriteString("  " + msg + "\n")
		}
		if hidden := r.ErrorCount - len(r.Errors); hidden > 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.DryRun {
		b.WriteString(styles.InfoStyle.Render("Note: this was a dry run. Nothing was deleted."))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpStyle.Render("Press q or enter to exit"))

	return b.String()
}
