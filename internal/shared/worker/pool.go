// Package worker runs file-level work on a bounded goroutine pool.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/panjf2000/ants/v2"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

const (
	idleExpiry      = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Running int
	Free    int
	Cap     int
}

// DefaultSize is the pool size used when the caller asks for zero workers.
func DefaultSize() int {
	return runtime.GOMAXPROCS(0)
}

// New creates a pool of size workers. Submit blocks while every worker is busy.
func New(name string, size int) (*Pool, error) {
	if size <= 0 {
		size = DefaultSize()
	}
	panicHandler := func(p interface{}) {
		slog.Error("worker panic recovered", "pool", name, "panic", p, "stack", string(debug.Stack()))
	}
	pool, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(idleExpiry),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: pool, name: name}, nil
}

// Submit queues task. A cancelled ctx is rejected up front with ctx.Err().
// Once accepted the task always runs exactly once, so callers waiting on it
// never hang; a task dequeued after cancellation sees ctx.Err() itself.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	err := p.pool.Submit(func() {
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

func (p *Pool) Stats() Stats {
	return Stats{
		Running: p.pool.Running(),
		Free:    p.pool.Free(),
		Cap:     p.pool.Cap(),
	}
}

func (p *Pool) Name() string {
	return p.name
}

// Close waits for running tasks, bounded by a timeout.
func (p *Pool) Close() {
	if err := p.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		slog.Warn("worker pool shutdown timeout", "pool", p.name, "error", err)
	}
}
