package scanner

import "sort"

// ExtensionAggregator accumulates per-extension counts and byte totals.
type ExtensionAggregator struct {
	stats map[string]*ExtensionStat
}

func NewExtensionAggregator() *ExtensionAggregator {
	return &ExtensionAggregator{stats: make(map[string]*ExtensionStat)}
}

// Add counts rec under its extension, or NoExtension.
func (a *ExtensionAggregator) Add(rec FileRecord) {
	key := rec.Extension
	if key == "" {
		key = NoExtension
	}

	stat, ok := a.stats[key]
	if !ok {
		stat = &ExtensionStat{Extension: key}
		a.stats[key] = stat
	}
	stat.Count++
	stat.TotalBytes += rec.Size
}

// Stats returns one entry per extension, largest total first, ties by name.
func (a *ExtensionAggregator) Stats() []ExtensionStat {
	out := make([]ExtensionStat, 0, len(a.stats))
	for _, stat := range a.stats {
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBytes != out[j].TotalBytes {
			return out[i].TotalBytes > out[j].TotalBytes
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}
