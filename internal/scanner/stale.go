package scanner

import "time"

// StalenessFilter keeps records last modified strictly before a cutoff.
type StalenessFilter struct {
	cutoff    time.Time
	max       int
	files     []FileRecord
	truncated bool
}

// NewStalenessFilter selects files older than now minus staleDays. A
// positive max caps the list at the first max matches.
func NewStalenessFilter(now time.Time, staleDays, max int) *StalenessFilter {
	return &StalenessFilter{
		cutoff: now.AddDate(0, 0, -staleDays),
		max:    max,
	}
}

// Cutoff returns the modification time a file must be older than.
func (f *StalenessFilter) Cutoff() time.Time { return f.cutoff }

func (f *StalenessFilter) Offer(rec FileRecord) {
	if !rec.ModTime.Before(f.cutoff) {
		return
	}
	if f.max > 0 && len(f.files) >= f.max {
		f.truncated = true
		return
	}
	f.files = append(f.files, rec)
}

// Files returns the matches in walk order.
func (f *StalenessFilter) Files() []FileRecord { return f.files }

// Truncated reports whether matches were dropped because of the cap.
func (f *StalenessFilter) Truncated() bool { return f.truncated }
