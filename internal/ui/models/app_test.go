package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/progress"
)

type fakeService struct {
	reports  []junk.Report
	scanErr  error
	result   *cleaner.CleanResult
	cleanErr error
	cleaned  []string
}

func (f *fakeService) Scan(ctx context.Context) ([]junk.Report, error) {
	return f.reports, f.scanErr
}

func (f *fakeService) Clean(ctx context.Context, ids []string) (*cleaner.CleanResult, error) {
	f.cleaned = ids
	return f.result, f.cleanErr
}

func sampleReports() []junk.Report {
	return []junk.Report{
		{Category: junk.PackageCaches, Size: 5000, Items: []junk.Item{{Path: "/h/.npm/_cacache", Size: 5000}}},
		{Category: junk.SystemCache, Size: 3000, Items: []junk.Item{{Path: "/h/.cache/a", Size: 2000}, {Path: "/h/.cache/b", Size: 1000}}},
		{Category: junk.Trash, Size: 100, Items: []junk.Item{{Path: "/h/.local/share/Trash/files/x", Size: 100}}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// send feeds msg to m and returns the message produced by the resulting
// command, if any.
func send(t *testing.T, m *AppModel, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func isQuit(msg tea.Msg) bool {
	_, ok := msg.(tea.QuitMsg)
	return ok
}

func sizedApp(t *testing.T, svc *fakeService, opts Options) *AppModel {
	t.Helper()
	m := NewAppModel(context.Background(), svc, opts)
	if m.Init() == nil {
		t.Fatal("Init() returned no command")
	}
	if m.State() != ViewSizing {
		t.Fatalf("initial state = %v, want sizing", m.State())
	}
	send(t, m, m.scanView.performScan())
	return m
}

func TestFullFlow(t *testing.T) {
	svc := &fakeService{
		reports: sampleReports(),
		result:  &cleaner.CleanResult{FreedBytes: 8000, DeletedCount: 3, DryRun: true},
	}
	m := sizedApp(t, svc, Options{DryRun: true, Progress: progress.NewProgressReporter()})

	if m.State() != ViewCategorySelection {
		t.Fatalf("state = %v, want category selection", m.State())
	}

	// Only system cache is preselected; add package caches (first row).
	send(t, m, key("space"))

	msg := send(t, m, key("enter"))
	selected, ok := msg.(CategoriesSelectedMsg)
	if !ok {
		t.Fatalf("enter produced %T, want CategoriesSelectedMsg", msg)
	}
	if len(selected.Selected) != 2 {
		t.Fatalf("selected %d categories, want 2", len(selected.Selected))
	}

	send(t, m, selected)
	if m.State() != ViewConfirmation {
		t.Fatalf("state = %v, want confirmation", m.State())
	}
	if !strings.Contains(m.View(), "simulate deleting 3 entries") {
		t.Errorf("confirm view:\n%s", m.View())
	}

	confirm := send(t, m, key("y"))
	if _, ok := confirm.(ConfirmedMsg); !ok {
		t.Fatalf("y produced %T, want ConfirmedMsg", confirm)
	}
	send(t, m, confirm)
	if m.State() != ViewCleaning {
		t.Fatalf("state = %v, want cleaning", m.State())
	}

	send(t, m, m.cleanupView.performCleanup())
	if m.State() != ViewSummary {
		t.Fatalf("state = %v, want summary", m.State())
	}

	wantIDs := []string{"package_caches", "system_cache"}
	if strings.Join(svc.cleaned, ",") != strings.Join(wantIDs, ",") {
		t.Errorf("cleaned %v, want %v", svc.cleaned, wantIDs)
	}
	if m.Result() != svc.result {
		t.Error("Result() should return the clean result")
	}
	if view := m.View(); !strings.Contains(view, "Would free: 7.8 KB") {
		t.Errorf("summary view:\n%s", view)
	}

	if !isQuit(send(t, m, key("enter"))) {
		t.Error("enter on summary should quit")
	}
}

func TestCategoryDefaultsAndBulkSelection(t *testing.T) {
	m := NewCategoryViewModel(sampleReports(), 0, 0)

	want := map[junk.Category]bool{junk.PackageCaches: false, junk.SystemCache: true, junk.Trash: false}
	for _, item := range m.Items() {
		if item.Selected != want[item.Report.Category] {
			t.Errorf("%s selected = %v, want %v", item.Report.Category, item.Selected, want[item.Report.Category])
		}
	}

	m.Update(key("ctrl+a"))
	if count, size := m.selection(); count != 3 || size != 8100 {
		t.Errorf("after ctrl+a selection = %d, %d", count, size)
	}

	m.Update(key("ctrl+d"))
	if count, _ := m.selection(); count != 0 {
		t.Errorf("after ctrl+d selection = %d", count)
	}

	m.Update(key("x"))
	if !m.items[0].Selected || m.cursor != 1 {
		t.Errorf("x should toggle and move down: selected=%v cursor=%d", m.items[0].Selected, m.cursor)
	}

	m.Update(key("G"))
	if m.cursor != 2 {
		t.Errorf("G cursor = %d, want 2", m.cursor)
	}
	m.Update(key("g"))
	if m.cursor != 0 {
		t.Errorf("g cursor = %d, want 0", m.cursor)
	}
}

func TestEnterWithoutSelection(t *testing.T) {
	m := NewCategoryViewModel(sampleReports(), 0, 0)
	m.Update(key("ctrl+d"))

	_, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Fatal("enter with nothing selected should not proceed")
	}
	if !strings.Contains(m.View(), "Select at least one category") {
		t.Errorf("view should explain why:\n%s", m.View())
	}
}

func TestBrowseAndBack(t *testing.T) {
	m := sizedApp(t, &fakeService{reports: sampleReports()}, Options{})

	send(t, m, key("j"))
	msg := send(t, m, key("tab"))
	browse, ok := msg.(BrowseCategoryMsg)
	if !ok || browse.Report.Category != junk.SystemCache {
		t.Fatalf("tab produced %#v", msg)
	}

	send(t, m, browse)
	if m.State() != ViewBrowser {
		t.Fatalf("state = %v, want browser", m.State())
	}
	if view := m.View(); !strings.Contains(view, "/h/.cache/a") || !strings.Contains(view, "/h/.cache/b") {
		t.Errorf("browser view:\n%s", view)
	}

	send(t, m, key("esc"))
	if m.State() != ViewCategorySelection {
		t.Errorf("esc state = %v, want category selection", m.State())
	}
}

func TestInfoPanelToggle(t *testing.T) {
	m := NewCategoryViewModel(sampleReports(), 120, 40)

	m.Update(key("i"))
	if !strings.Contains(m.View(), "/h/.npm/_cacache") {
		t.Errorf("info panel should list entries:\n%s", m.View())
	}

	m.Update(key("i"))
	if m.info != nil {
		t.Error("second i should close the panel")
	}
}

func TestConfirmReviewAndCancel(t *testing.T) {
	m := sizedApp(t, &fakeService{reports: sampleReports()}, Options{})
	send(t, m, send(t, m, key("enter")))

	review := send(t, m, key("e"))
	if _, ok := review.(ReviewSelectionMsg); !ok {
		t.Fatalf("e produced %T", review)
	}
	send(t, m, review)
	if m.State() != ViewCategorySelection {
		t.Fatalf("state = %v, want category selection", m.State())
	}

	send(t, m, send(t, m, key("enter")))
	if !isQuit(send(t, m, key("n"))) {
		t.Error("n should quit")
	}
}

func TestQuitIgnoredWhileCleaning(t *testing.T) {
	svc := &fakeService{reports: sampleReports(), result: &cleaner.CleanResult{}}
	m := sizedApp(t, svc, Options{})
	send(t, m, send(t, m, key("enter")))
	send(t, m, ConfirmedMsg{})

	if m.State() != ViewCleaning {
		t.Fatalf("state = %v, want cleaning", m.State())
	}
	if isQuit(send(t, m, key("q"))) || isQuit(send(t, m, key("ctrl+c"))) {
		t.Error("quit keys should be ignored while cleaning")
	}
}

func TestSizingError(t *testing.T) {
	m := sizedApp(t, &fakeService{scanErr: context.Canceled}, Options{})

	if !errors.Is(m.Err(), context.Canceled) {
		t.Fatalf("Err() = %v, want canceled", m.Err())
	}
	if !strings.Contains(m.View(), "Error: failed to size junk categories") {
		t.Errorf("error view:\n%s", m.View())
	}
	if !isQuit(send(t, m, key("q"))) {
		t.Error("q should quit from the error view")
	}
}

func TestPartialCleanShowsSummary(t *testing.T) {
	svc := &fakeService{
		reports: sampleReports(),
		result: &cleaner.CleanResult{
			DeletedCount: 1,
			ErrorCount:   12,
			Errors:       []*cleaner.DeletionError{{Path: "/h/.cache/b", Reason: cleaner.ErrorPermissionDenied}},
		},
		cleanErr: context.Canceled,
	}
	m := sizedApp(t, svc, Options{})
	send(t, m, send(t, m, key("enter")))
	send(t, m, ConfirmedMsg{})
	send(t, m, m.cleanupView.performCleanup())

	if m.State() != ViewSummary {
		t.Fatalf("state = %v, want summary", m.State())
	}
	view := m.View()
	for _, want := range []string{"Stopped early", "12 entries could not be removed", "Permission denied: /h/.cache/b", "... and 11 more"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary missing %q:\n%s", want, view)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := sizedApp(t, &fakeService{reports: sampleReports()}, Options{})

	send(t, m, key("?"))
	if m.State() != ViewHelp || !strings.Contains(m.View(), "Help - Category Selection") {
		t.Fatalf("help view:\n%s", m.View())
	}

	send(t, m, key("x"))
	if m.State() != ViewCategorySelection {
		t.Errorf("any key should close help, state = %v", m.State())
	}
}

func TestCalculateRiskLevel(t *testing.T) {
	cache := CategoryItem{Report: junk.Report{Category: junk.SystemCache, Size: 10}, SafetyLevel: SafetyHigh}
	derived := CategoryItem{Report: junk.Report{Category: junk.DerivedData, Size: 10}, SafetyLevel: SafetyHigh}
	logs := CategoryItem{Report: junk.Report{Category: junk.AppLogs, Size: 10}, SafetyLevel: SafetyMedium}
	trash := CategoryItem{Report: junk.Report{Category: junk.Trash, Size: 1}, SafetyLevel: SafetyLow}
	huge := CategoryItem{Report: junk.Report{Category: junk.SystemCache, Size: 20 << 30}, SafetyLevel: SafetyHigh}

	tests := []struct {
		name  string
		items []CategoryItem
		want  RiskLevel
	}{
		{"caches only", []CategoryItem{cache, derived}, RiskLow},
		{"logs", []CategoryItem{cache, logs}, RiskMedium},
		{"trash", []CategoryItem{trash}, RiskHigh},
		{"very large", []CategoryItem{huge}, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateRiskLevel(tt.items); got != tt.want {
				t.Errorf("calculateRiskLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHighRiskDefaultsToCancel(t *testing.T) {
	items := []CategoryItem{{Report: junk.Report{Category: junk.Trash}, SafetyLevel: SafetyLow}}
	m := NewConfirmViewModel(items, false, 80, 24)

	if m.cursor != buttonCancel {
		t.Fatalf("cursor = %d, want cancel", m.cursor)
	}
	if _, cmd := m.Update(key("enter")); !isQuit(cmd()) {
		t.Error("enter on cancel should quit")
	}
	if got := m.IDs(); len(got) != 1 || got[0] != "trash" {
		t.Errorf("IDs() = %v", got)
	}
}

func TestScanViewObservesSizing(t *testing.T) {
	reporter := progress.NewProgressReporter()
	m := NewScanViewModel(context.Background(), &fakeService{}, reporter)

	reporter.Report(progress.Update{Phase: progress.PhaseSizing, CurrentPath: "Trash Bin", Bytes: 2048})
	m.Update(progressTickMsg{})
	reporter.Report(progress.Update{Phase: progress.PhaseSizing, CurrentPath: "Application Logs", Bytes: 1024})
	_, cmd := m.Update(progressTickMsg{})

	if cmd == nil {
		t.Error("polling should continue while sizing")
	}
	view := m.View()
	for _, want := range []string{"Trash Bin", "Application Logs", "Total so far: 3.0 KB"} {
		if !strings.Contains(view, want) {
			t.Errorf("scan view missing %q:\n%s", want, view)
		}
	}

	m.Update(SizingCompleteMsg{})
	if _, cmd := m.Update(progressTickMsg{}); cmd != nil {
		t.Error("polling should stop after sizing")
	}
}

func TestCleanupPercent(t *testing.T) {
	reporter := progress.NewProgressReporter()
	items := []CategoryItem{{Report: sampleReports()[1]}, {Report: sampleReports()[2]}}
	m := NewCleanupViewModel(context.Background(), &fakeService{}, items, reporter)

	if m.Percent() != 0 {
		t.Errorf("initial percent = %v", m.Percent())
	}

	reporter.Report(progress.Update{Phase: progress.PhaseCleaning, Done: 2})
	m.Update(progressTickMsg{})
	if got := m.Percent(); got < 0.66 || got > 0.67 {
		t.Errorf("percent = %v, want 2/3", got)
	}
	if !strings.Contains(m.View(), "Progress: 2/3 entries") {
		t.Errorf("cleanup view:\n%s", m.View())
	}
}
