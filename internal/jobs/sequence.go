package jobs

import (
	"container/heap"
	"sync"
)

// SequenceBuffer holds results that completed out of order and releases them
// strictly by Seq, starting from 0.
type SequenceBuffer struct {
	mu    sync.Mutex
	items resultHeap
	next  int
}

// NewSequenceBuffer creates an empty buffer expecting Seq 0 first.
func NewSequenceBuffer() *SequenceBuffer {
	b := &SequenceBuffer{items: make(resultHeap, 0)}
	heap.Init(&b.items)
	return b
}

// Push adds a result. Results with a Seq already released are ignored.
func (b *SequenceBuffer) Push(r WorkResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r.Seq < b.next {
		return
	}
	heap.Push(&b.items, r)
}

// Ready removes and returns every buffered result that continues the
// sequence without a gap.
func (b *SequenceBuffer) Ready() []WorkResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []WorkResult
	for b.items.Len() > 0 && b.items[0].Seq == b.next {
		out = append(out, heap.Pop(&b.items).(WorkResult))
		b.next++
	}
	return out
}

// Pending returns the number of buffered results waiting on a gap.
func (b *SequenceBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

// Next returns the Seq the buffer is waiting for.
func (b *SequenceBuffer) Next() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next
}

// resultHeap orders results by Seq, lowest first.
type resultHeap []WorkResult

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].Seq < h[j].Seq }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(WorkResult))
}

func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
