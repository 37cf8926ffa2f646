package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/fenilsonani/diskscope/internal/progress"
)

const refreshInterval = 100 * time.Millisecond

// LiveProgress redraws a single status line on a terminal as progress
// updates arrive. It stays silent when the output is not a terminal.
type LiveProgress struct {
	mu         sync.Mutex
	out        io.Writer
	termWidth  int
	enabled    bool
	lastUpdate time.Time
	drawn      bool
}

// NewLiveProgress creates a live progress line on f, usually os.Stderr.
func NewLiveProgress(f *os.File) *LiveProgress {
	fd := f.Fd()
	enabled := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	width := 80
	if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
		width = w
	}

	return &LiveProgress{
		out:       f,
		termWidth: width,
		enabled:   enabled,
	}
}

// Enabled reports whether updates are drawn.
func (lp *LiveProgress) Enabled() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.enabled
}

// SetEnabled enables or disables live progress
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// Follow draws every update published by pr until the returned stop
// function is called. stop clears the line and waits for the drawing
// goroutine to exit.
func (lp *LiveProgress) Follow(pr *progress.ProgressReporter) (stop func()) {
	if !lp.Enabled() {
		return func() {}
	}

	updates := pr.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			lp.Update(u)
		}
	}()

	return func() {
		pr.Unsubscribe(updates)
		<-done
		lp.Finish()
	}
}

// Update redraws the line for u. Intermediate updates are throttled to
// ten per second; completion and errors always draw.
func (lp *LiveProgress) Update(u progress.Update) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	now := time.Now()
	final := u.Phase == progress.PhaseComplete || u.Phase == progress.PhaseError
	if !final && now.Sub(lp.lastUpdate) < refreshInterval {
		return
	}
	lp.lastUpdate = now

	fmt.Fprintf(lp.out, "\r\033[K%s", truncate(progress.Format(u), lp.termWidth-1))
	lp.drawn = true
}

// Finish clears the progress line.
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.enabled && lp.drawn {
		fmt.Fprint(lp.out, "\r\033[K")
		lp.drawn = false
	}
}

// truncate shortens s to width runes, keeping the tail of long paths.
func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return "..." + string(r[len(r)-width+3:])
}
