package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilsonani/diskscope/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseWalking        Phase = "walking"
	PhaseFingerprinting Phase = "fingerprinting"
	PhaseSizing         Phase = "sizing"
	PhaseCleaning       Phase = "cleaning"
	PhaseComplete       Phase = "complete"
	PhaseError          Phase = "error"
)

// Update is one progress snapshot. Done/Total are only meaningful for
// phases with a known amount of work (fingerprinting, cleaning).
type Update struct {
	Operation   string
	Phase       Phase
	CurrentPath string
	Files       int
	Bytes       uint64
	Done        int
	Total       int
	StartTime   time.Time
	Error       error
}

// ProgressReporter fans updates out to subscribers without ever blocking
// the producer.
type ProgressReporter struct {
	latest    Update
	mu        sync.RWMutex
	listeners []chan Update
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		listeners: make([]chan Update, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (pr *ProgressReporter) Subscribe() <-chan Update {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	ch := make(chan Update, 16)
	pr.listeners = append(pr.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (pr *ProgressReporter) Unsubscribe(ch <-chan Update) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i, listener := range pr.listeners {
		if listener == ch {
			close(listener)
			pr.listeners = append(pr.listeners[:i], pr.listeners[i+1:]...)
			return
		}
	}
}

// Report records update and notifies listeners. Safe on a nil receiver so
// components can report unconditionally.
func (pr *ProgressReporter) Report(update Update) {
	if pr == nil {
		return
	}

	// Sends are non-blocking, so holding the lock keeps Unsubscribe from
	// closing a channel mid-send.
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.latest = update
	for _, listener := range pr.listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// Latest returns the most recent update.
func (pr *ProgressReporter) Latest() Update {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.latest
}

// Format returns a one-line description of update.
func Format(u Update) string {
	elapsed := FormatDuration(time.Since(u.StartTime))

	switch u.Phase {
	case PhaseWalking:
		return fmt.Sprintf("Walking... %d files (%s) [%s]", u.Files, utils.HumanSize(u.Bytes), elapsed)
	case PhaseFingerprinting:
		return fmt.Sprintf("Fingerprinting... %d/%d size buckets [%s]", u.Done, u.Total, elapsed)
	case PhaseSizing:
		return fmt.Sprintf("Sizing %s... %s [%s]", u.CurrentPath, utils.HumanSize(u.Bytes), elapsed)
	case PhaseCleaning:
		return fmt.Sprintf("Cleaning... %d entries, %s freed [%s]", u.Done, utils.HumanSize(u.Bytes), elapsed)
	case PhaseComplete:
		return fmt.Sprintf("%s complete: %d files (%s) in %s", u.Operation, u.Files, utils.HumanSize(u.Bytes), elapsed)
	case PhaseError:
		return fmt.Sprintf("%s error: %v", u.Operation, u.Error)
	default:
		return "Working..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
