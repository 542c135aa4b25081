// Package jobs runs units of work on a fixed set of worker goroutines and
// hands results back in submission order when asked.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrWorkerQueueFull is returned by Submit when the queue has no room.
	ErrWorkerQueueFull = errors.New("worker queue full")
	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrNilWorkUnit is returned when submitting or pushing a nil unit.
	ErrNilWorkUnit = errors.New("cannot submit nil work unit")
)

// WorkUnit is one piece of work. Seq is the unit's position in the caller's
// schedule and is carried through to its result.
type WorkUnit struct {
	ID      string
	Seq     int
	Key     string
	Payload any
}

// WorkResult is the outcome of one unit.
type WorkResult struct {
	UnitID   string
	Seq      int
	Key      string
	Value    any
	Err      error
	Duration time.Duration
}

// Handler executes a unit. It must honour ctx cancellation.
type Handler func(ctx context.Context, unit *WorkUnit) (any, error)

// PoolStatus reports a pool's current state.
type PoolStatus struct {
	Name       string `json:"name"`
	Workers    int    `json:"workers"`
	InFlight   int    `json:"in_flight"`
	QueueDepth int    `json:"queue_depth"`
	Completed  int64  `json:"completed"`
}

// PoolConfig configures a new pool.
type PoolConfig struct {
	Name        string
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: 1)
	QueueSize   int // Queue size (default: 1000)
	Handler     Handler
}

// WorkerPool runs units on WorkerCount goroutines. All workers share a single
// queue and publish to a single results channel.
type WorkerPool struct {
	name        string
	logger      *slog.Logger
	workerCount int
	handler     Handler

	queue   chan *WorkUnit
	results chan WorkResult

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup

	inFlight  atomic.Int32
	completed atomic.Int64
}

// NewWorkerPool creates a pool. Start must be called before results flow.
func NewWorkerPool(cfg PoolConfig) (*WorkerPool, error) {
	if cfg.Handler == nil {
		return nil, errors.New("worker pool requires a handler")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "workers"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	return &WorkerPool{
		name:        name,
		logger:      logger.With("pool", name, "workers", workerCount),
		workerCount: workerCount,
		handler:     cfg.Handler,
		queue:       make(chan *WorkUnit, queueSize),
		results:     make(chan WorkResult, queueSize),
	}, nil
}

// Name returns the pool name.
func (p *WorkerPool) Name() string {
	return p.name
}

// Results delivers one result per accepted unit, in completion order. It is
// closed after Close once every worker has exited.
func (p *WorkerPool) Results() <-chan WorkResult {
	return p.results
}

// Start launches the workers. Workers stop when ctx is cancelled or the pool
// is closed and drained. Calling Start twice is a no-op.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.logger.Debug("pool starting")
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	go func() {
		p.wg.Wait()
		close(p.results)
		p.logger.Debug("pool stopped", "completed", p.completed.Load())
	}()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case unit, ok := <-p.queue:
			if !ok {
				return
			}
			p.inFlight.Add(1)
			result := p.process(ctx, unit)
			p.inFlight.Add(-1)
			p.completed.Add(1)
			p.logger.Debug("worker completed unit", "worker_id", id, "unit_id", unit.ID, "seq", unit.Seq, "success", result.Err == nil)

			select {
			case p.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, unit *WorkUnit) (result WorkResult) {
	result = WorkResult{UnitID: unit.ID, Seq: unit.Seq, Key: unit.Key}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("work unit %s panicked: %v", unit.ID, r)
			p.logger.Error("work unit panicked", "unit_id", unit.ID, "panic", r)
		}
		result.Duration = time.Since(start)
	}()

	result.Value, result.Err = p.handler(ctx, unit)
	return result
}

// Submit queues a unit without blocking.
func (p *WorkerPool) Submit(unit *WorkUnit) error {
	if unit == nil {
		return ErrNilWorkUnit
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- unit:
		return nil
	default:
		p.logger.Warn("pool queue full", "unit_id", unit.ID)
		return fmt.Errorf("%w: %s", ErrWorkerQueueFull, p.name)
	}
}

// Close stops accepting units. Workers finish what is queued, then exit.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}

// Status returns current pool status.
func (p *WorkerPool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
		Completed:  p.completed.Load(),
	}
}
