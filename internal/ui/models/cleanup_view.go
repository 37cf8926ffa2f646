package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// CleanupViewModel handles the cleanup progress view
type CleanupViewModel struct {
	ctx       context.Context
	service   JunkService
	ids       []string
	expected  int
	reporter  *progress.ProgressReporter
	spinner   spinner.Model
	bar       bprogress.Model
	latest    progress.Update
	startTime time.Time
}

// NewCleanupViewModel creates a new cleanup view model. The progress bar
// counts against the number of entries the sizing pass found.
func NewCleanupViewModel(ctx context.Context, service JunkService, items []CategoryItem, reporter *progress.ProgressReporter) *CleanupViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ids := make([]string, 0, len(items))
	expected := 0
	for _, item := range items {
		ids = append(ids, item.Report.Category.ID())
		expected += len(item.Report.Items)
	}

	return &CleanupViewModel{
		ctx:       ctx,
		service:   service,
		ids:       ids,
		expected:  expected,
		reporter:  reporter,
		spinner:   s,
		bar:       bprogress.New(bprogress.WithDefaultGradient()),
		startTime: time.Now(),
	}
}

// Init starts deletion. Progress polling stops once the app leaves the
// cleaning view.
func (m *CleanupViewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.performCleanup}
	if m.reporter != nil {
		cmds = append(cmds, tickProgress())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *CleanupViewModel) Update(msg tea.Msg) (*CleanupViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressTickMsg:
		if m.reporter == nil {
			return m, nil
		}
		m.latest = m.reporter.Latest()
		return m, tickProgress()

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, 60)
	}

	return m, nil
}

// Percent is the share of expected entries handled so far.
func (m *CleanupViewModel) Percent() float64 {
	if m.expected == 0 || m.latest.Phase != progress.PhaseCleaning {
		return 0
	}
	return min(float64(m.latest.Done)/float64(m.expected), 1)
}

// View renders the cleanup view
func (m *CleanupViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Cleaning up"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" Removing entries... ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", progress.FormatDuration(time.Since(m.startTime)))))
	b.WriteString("\n\n")

	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Progress: %d/%d entries, %s",
		m.latest.Done, m.expected, utils.HumanSize(m.latest.Bytes)))
	if m.latest.CurrentPath != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(m.latest.CurrentPath))
	}

	return b.String()
}

func (m *CleanupViewModel) performCleanup() tea.Msg {
	result, err := m.service.Clean(m.ctx, m.ids)
	return CleanupCompleteMsg{Result: result, Err: err}
}
