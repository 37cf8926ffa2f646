package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewSizing ViewState = iota
	ViewCategorySelection
	ViewBrowser
	ViewConfirmation
	ViewCleaning
	ViewSummary
	ViewHelp
)

const progressRefresh = 100 * time.Millisecond

// JunkService sizes and cleans junk categories. *junk.Categorizer
// implements it.
type JunkService interface {
	Scan(ctx context.Context) ([]junk.Report, error)
	Clean(ctx context.Context, ids []string) (*cleaner.CleanResult, error)
}

// Options tune the interactive session.
type Options struct {
	DryRun bool
	// Progress is the reporter the service publishes to; nil hides live
	// progress.
	Progress *progress.ProgressReporter
}

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state         ViewState
	previousState ViewState

	ctx     context.Context
	service JunkService
	opts    Options
	reports []junk.Report
	result  *cleaner.CleanResult

	scanView     *ScanViewModel
	categoryView *CategoryViewModel
	browserView  *BrowserViewModel
	confirmView  *ConfirmViewModel
	cleanupView  *CleanupViewModel
	summaryView  *SummaryViewModel

	width  int
	height int
	err    error
}

// NewAppModel creates a new app model
func NewAppModel(ctx context.Context, service JunkService, opts Options) *AppModel {
	return &AppModel{
		state:   ViewSizing,
		ctx:     ctx,
		service: service,
		opts:    opts,
	}
}

// Err returns the error that ended the session, if any.
func (m *AppModel) Err() error {
	return m.err
}

// Result returns the clean result once cleaning has finished.
func (m *AppModel) Result() *cleaner.CleanResult {
	return m.result
}

// State returns the current view.
func (m *AppModel) State() ViewState {
	return m.state
}

// Init starts sizing immediately.
func (m *AppModel) Init() tea.Cmd {
	m.scanView = NewScanViewModel(m.ctx, m.service, m.opts.Progress)
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == ViewHelp {
			m.state = m.previousState
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			// Deletion runs to completion once confirmed.
			if m.state != ViewCleaning {
				return m, tea.Quit
			}
			return m, nil
		case "?":
			if m.err == nil {
				m.previousState = m.state
				m.state = ViewHelp
			}
			return m, nil
		case "esc":
			switch m.state {
			case ViewBrowser, ViewConfirmation:
				m.state = ViewCategorySelection
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SizingCompleteMsg:
		if m.scanView != nil {
			m.scanView, _ = m.scanView.Update(msg)
		}
		if msg.Err != nil {
			m.err = fmt.Errorf("failed to size junk categories: %w", msg.Err)
			return m, nil
		}
		m.reports = msg.Reports
		m.categoryView = NewCategoryViewModel(m.reports, m.width, m.height)
		m.state = ViewCategorySelection
		return m, nil

	case BrowseCategoryMsg:
		m.browserView = NewBrowserViewModel(msg.Report, m.width, m.height)
		m.state = ViewBrowser
		return m, nil

	case CategoriesSelectedMsg:
		m.confirmView = NewConfirmViewModel(msg.Selected, m.opts.DryRun, m.width, m.height)
		m.state = ViewConfirmation
		return m, nil

	case ReviewSelectionMsg:
		m.state = ViewCategorySelection
		return m, nil

	case ConfirmedMsg:
		m.cleanupView = NewCleanupViewModel(m.ctx, m.service, m.confirmView.items, m.opts.Progress)
		m.state = ViewCleaning
		return m, m.cleanupView.Init()

	case CleanupCompleteMsg:
		if msg.Result == nil {
			m.err = fmt.Errorf("failed to clean: %w", msg.Err)
			return m, nil
		}
		m.result = msg.Result
		m.summaryView = NewSummaryViewModel(msg.Result, msg.Err)
		m.state = ViewSummary
		return m, nil
	}

	return m.delegateUpdate(msg)
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewSizing:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewCategorySelection:
		if m.categoryView != nil {
			m.categoryView, cmd = m.categoryView.Update(msg)
		}
	case ViewBrowser:
		if m.browserView != nil {
			m.browserView, cmd = m.browserView.Update(msg)
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			m.confirmView, cmd = m.confirmView.Update(msg)
		}
	case ViewCleaning:
		if m.cleanupView != nil {
			m.cleanupView, cmd = m.cleanupView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	switch m.state {
	case ViewSizing:
		if m.scanView != nil {
			return m.scanView.View()
		}
	case ViewCategorySelection:
		if m.categoryView != nil {
			return m.categoryView.View()
		}
	case ViewBrowser:
		if m.browserView != nil {
			return m.browserView.View()
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			return m.confirmView.View()
		}
	case ViewCleaning:
		if m.cleanupView != nil {
			return m.cleanupView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			return m.summaryView.View()
		}
	case ViewHelp:
		return m.renderHelp()
	}

	return "Loading..."
}

func (m *AppModel) renderHelp() string {
	var viewName, content string

	switch m.previousState {
	case ViewSizing:
		viewName = "Sizing"
		content = helpSizing
	case ViewCategorySelection:
		viewName = "Category Selection"
		content = helpCategory
	case ViewBrowser:
		viewName = "Category Contents"
		content = helpBrowser
	case ViewConfirmation:
		viewName = "Confirmation"
		content = helpConfirm
	case ViewSummary:
		viewName = "Summary"
		content = helpSummary
	default:
		viewName = "General"
		content = helpGeneral
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Help - " + viewName))
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))
	return b.String()
}

const helpSizing = `Measuring every junk category under your home directory.

Actions:
  q, ctrl+c  Cancel and exit

Category selection opens when sizing finishes.`

const helpCategory = `Choose the categories to clean.

Navigation:
  up/k, down/j  Move
  g, G          Top, bottom

Selection:
  space         Toggle category
  x             Toggle and move down
  ctrl+a        Select all
  ctrl+d        Deselect all

Actions:
  i             Show category details
  tab, l        List the largest entries
  enter         Continue to confirmation
  q             Quit`

const helpBrowser = `Read-only list of a category's top-level entries, largest first.

Navigation:
  up/k, down/j    Move
  ctrl+f, ctrl+b  Page down, page up

Actions:
  esc             Back to categories`

const helpConfirm = `Review what is about to be deleted.

Actions:
  left/h, right/l  Switch button
  y                Delete
  e                Edit selection
  n                Cancel and exit
  esc              Back to categories

Deleted entries cannot be recovered.`

const helpSummary = `Cleaning finished.

Actions:
  enter, q  Exit`

const helpGeneral = `diskscope interactive junk cleaner

  1. Sizing      measure every junk category
  2. Selection   choose categories
  3. Confirm     review the deletion
  4. Cleaning    remove top-level entries
  5. Summary     freed space and errors`

// SizingCompleteMsg carries the sized categories.
type SizingCompleteMsg struct {
	Reports []junk.Report
	Err     error
}

// BrowseCategoryMsg opens the entry list of one category.
type BrowseCategoryMsg struct {
	Report junk.Report
}

// CategoriesSelectedMsg moves to confirmation with the chosen categories.
type CategoriesSelectedMsg struct {
	Selected []CategoryItem
}

type ConfirmedMsg struct{}

type ReviewSelectionMsg struct{}

// CleanupCompleteMsg carries the clean result. Result is partial when Err
// is a cancellation.
type CleanupCompleteMsg struct {
	Result *cleaner.CleanResult
	Err    error
}

type progressTickMsg time.Time

func tickProgress() tea.Cmd {
	return tea.Tick(progressRefresh, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}
