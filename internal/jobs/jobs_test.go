package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWorkerPool_ProcessesAllUnits(t *testing.T) {
	pool, err := NewWorkerPool(PoolConfig{
		Name:        "test",
		WorkerCount: 4,
		Handler: func(ctx context.Context, unit *WorkUnit) (any, error) {
			n := unit.Payload.(int)
			if n%5 == 0 {
				return nil, fmt.Errorf("bad %d", n)
			}
			return n * n, nil
		},
	})
	if err != nil {
		t.Fatalf("NewWorkerPool() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		if err := pool.Submit(&WorkUnit{ID: fmt.Sprint(i), Seq: i, Payload: i}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	pool.Close()

	var seqs []int
	failures := 0
	for r := range pool.Results() {
		seqs = append(seqs, r.Seq)
		if r.Err != nil {
			failures++
			continue
		}
		if r.Value != r.Seq*r.Seq {
			t.Errorf("seq %d: Value = %v", r.Seq, r.Value)
		}
	}
	sort.Ints(seqs)
	if len(seqs) != 20 || seqs[0] != 0 || seqs[19] != 19 {
		t.Errorf("results seqs = %v", seqs)
	}
	if failures != 4 {
		t.Errorf("failures = %d, want 4", failures)
	}
	if got := pool.Status().Completed; got != 20 {
		t.Errorf("Status().Completed = %d, want 20", got)
	}
}

func TestWorkerPool_QueueFullAndClosed(t *testing.T) {
	pool, err := NewWorkerPool(PoolConfig{
		QueueSize: 1,
		Handler:   func(ctx context.Context, unit *WorkUnit) (any, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("NewWorkerPool() error = %v", err)
	}

	// Not started: the first unit fills the queue.
	if err := pool.Submit(&WorkUnit{ID: "a"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := pool.Submit(&WorkUnit{ID: "b"}); !errors.Is(err, ErrWorkerQueueFull) {
		t.Errorf("Submit() error = %v, want ErrWorkerQueueFull", err)
	}
	if err := pool.Submit(nil); !errors.Is(err, ErrNilWorkUnit) {
		t.Errorf("Submit(nil) error = %v, want ErrNilWorkUnit", err)
	}

	pool.Close()
	if err := pool.Submit(&WorkUnit{ID: "c"}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestWorkerPool_RecoversPanics(t *testing.T) {
	pool, _ := NewWorkerPool(PoolConfig{
		Handler: func(ctx context.Context, unit *WorkUnit) (any, error) { panic("boom") },
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool.Start(ctx)
	_ = pool.Submit(&WorkUnit{ID: "x"})
	pool.Close()

	r, ok := <-pool.Results()
	if !ok {
		t.Fatal("results closed without a result")
	}
	if r.Err == nil {
		t.Error("expected error from panicking handler")
	}
}

func TestNewWorkerPool_RequiresHandler(t *testing.T) {
	if _, err := NewWorkerPool(PoolConfig{}); err == nil {
		t.Error("expected error without handler")
	}
}

func TestSequenceBuffer(t *testing.T) {
	b := NewSequenceBuffer()

	b.Push(WorkResult{Seq: 2})
	b.Push(WorkResult{Seq: 1})
	if got := b.Ready(); len(got) != 0 {
		t.Fatalf("Ready() = %v, want nothing before seq 0", got)
	}
	if b.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", b.Pending())
	}

	b.Push(WorkResult{Seq: 0})
	b.Push(WorkResult{Seq: 4})
	var seqs []int
	for _, r := range b.Ready() {
		seqs = append(seqs, r.Seq)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, seqs); diff != "" {
		t.Errorf("Ready() seqs mismatch (-want +got):\n%s", diff)
	}
	if b.Next() != 3 {
		t.Errorf("Next() = %d, want 3", b.Next())
	}

	b.Push(WorkResult{Seq: 1})
	b.Push(WorkResult{Seq: 3})
	seqs = nil
	for _, r := range b.Ready() {
		seqs = append(seqs, r.Seq)
	}
	if diff := cmp.Diff([]int{3, 4}, seqs); diff != "" {
		t.Errorf("Ready() seqs mismatch (-want +got):\n%s", diff)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 (stale seq ignored)", b.Pending())
	}
}
