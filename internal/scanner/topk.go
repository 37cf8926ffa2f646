package scanner

import (
	"container/heap"
	"sort"
)

type rankedRecord struct {
	FileRecord
	seq uint64
}

// recordHeap is a min-heap whose root is the weakest member: the smallest
// size, and among equal sizes the most recently seen.
type recordHeap []rankedRecord

func (h recordHeap) Len() int { return len(h) }
func (h recordHeap) Less(i, j int) bool {
	if h[i].Size != h[j].Size {
		return h[i].Size < h[j].Size
	}
	return h[i].seq > h[j].seq
}
func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *recordHeap) Push(x any)   { *h = append(*h, x.(rankedRecord)) }
func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopKTracker keeps the k largest records offered. On equal size the
// record seen first wins, so a later tie never evicts.
type TopKTracker struct {
	k    int
	seq  uint64
	heap recordHeap
}

// NewTopKTracker returns a tracker holding at most k records.
func NewTopKTracker(k int) *TopKTracker {
	if k < 0 {
		k = 0
	}
	return &TopKTracker{k: k, heap: make(recordHeap, 0, k)}
}

// Offer considers rec for membership.
func (t *TopKTracker) Offer(rec FileRecord) {
	if t.k == 0 {
		return
	}
	t.seq++

	if len(t.heap) < t.k {
		heap.Push(&t.heap, rankedRecord{FileRecord: rec, seq: t.seq})
		return
	}

	if rec.Size > t.heap[0].Size {
		t.heap[0] = rankedRecord{FileRecord: rec, seq: t.seq}
		heap.Fix(&t.heap, 0)
	}
}

// Len returns the number of records held.
func (t *TopKTracker) Len() int { return len(t.heap) }

// Sorted returns the held records, largest first, ties in first-seen order.
func (t *TopKTracker) Sorted() []FileRecord {
	ranked := make([]rankedRecord, len(t.heap))
	copy(ranked, t.heap)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Size != ranked[j].Size {
			return ranked[i].Size > ranked[j].Size
		}
		return ranked[i].seq < ranked[j].seq
	})

	out := make([]FileRecord, len(ranked))
	for i, r := range ranked {
		out[i] = r.FileRecord
	}
	return out
}
