package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/fenilsonani/diskscope/internal/cleaner"
	"github.com/fenilsonani/diskscope/internal/junk"
	"github.com/fenilsonani/diskscope/internal/progress"
	"github.com/fenilsonani/diskscope/internal/ui/models"
)

// ErrNotTerminal is returned when interactive mode is started without a
// terminal on stdin and stdout.
var ErrNotTerminal = errors.New("interactive mode needs a terminal")

// RunInteractive runs the junk cleaner TUI until the user exits. It
// returns the clean result, or nil when the user left before cleaning.
func RunInteractive(ctx context.Context, categorizer *junk.Categorizer, dryRun bool) (*cleaner.CleanResult, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return nil, ErrNotTerminal
	}

	reporter := progress.NewProgressReporter()
	categorizer.SetProgressReporter(reporter)

	m := models.NewAppModel(ctx, categorizer, models.Options{
		DryRun:   dryRun,
		Progress: reporter,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running interactive mode: %w", err)
	}

	app := final.(*models.AppModel)
	return app.Result(), app.Err()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
