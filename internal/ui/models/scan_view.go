package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
	"github.com/fenilsonani/diskscope/pkg/utils"
)

// ScanViewModel shows a spinner while junk categories are sized.
type ScanViewModel struct {
	ctx       context.Context
	service   JunkService
	reporter  *progress.ProgressReporter
	spinner   spinner.Model
	scanning  bool
	startTime time.Time
	latest    progress.Update
	sized     map[string]uint64
	order     []string
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(ctx context.Context, service JunkService, reporter *progress.ProgressReporter) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &ScanViewModel{
		ctx:       ctx,
		service:   service,
		reporter:  reporter,
		spinner:   s,
		scanning:  true,
		startTime: time.Now(),
		sized:     make(map[string]uint64),
	}
}

// Init initializes the scan view
func (m *ScanViewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.performScan}
	if m.reporter != nil {
		cmds = append(cmds, tickProgress())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressTickMsg:
		if !m.scanning || m.reporter == nil {
			return m, nil
		}
		m.observe(m.reporter.Latest())
		return m, tickProgress()

	case SizingCompleteMsg:
		m.scanning = false
		return m, nil
	}

	return m, nil
}

// observe records a sizing update. Each finished category publishes
// one, so polling the latest update is enough to fill in the list.
func (m *ScanViewModel) observe(u progress.Update) {
	m.latest = u
	if u.Phase != progress.PhaseSizing || u.CurrentPath == "" {
		return
	}
	if _, ok := m.sized[u.CurrentPath]; !ok {
		m.order = append(m.order, u.CurrentPath)
	}
	m.sized[u.CurrentPath] = u.Bytes
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Sizing junk categories"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" Measuring... ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", progress.FormatDuration(time.Since(m.startTime)))))
	b.WriteString("\n\n")

	if len(m.order) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Finished:"))
		b.WriteString("\n")

		var total uint64
		for _, name := range m.order {
			size := m.sized[name]
			total += size
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				styles.CategoryStyle.Render(name),
				styles.FileSizeStyle.Render(utils.HumanSize(size))))
		}
		b.WriteString("\n")
		b.WriteString(styles.BoldStyle.Render("Total so far: " + utils.HumanSize(total)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press ctrl+c to cancel"))

	return b.String()
}

func (m *ScanViewModel) performScan() tea.Msg {
	reports, err := m.service.Scan(m.ctx)
	return SizingCompleteMsg{Reports: reports, Err: err}
}
