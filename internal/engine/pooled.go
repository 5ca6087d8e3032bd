package engine

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// PooledEngine bounds the number of movements applied concurrently. Each
// Apply call is submitted to a fixed-size worker pool and the caller blocks
// until its movement finishes, which keeps store lock contention proportional
// to the pool size rather than to request volume.
type PooledEngine struct {
	base   Applier
	pool   *ants.Pool
	logger *slog.Logger
}

// NewPooledEngine wraps an Applier with a worker pool of the given size
func NewPooledEngine(logger *slog.Logger, base Applier, size int) (*PooledEngine, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &PooledEngine{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

type applyOutcome struct {
	result *Result
	err    error
}

// Apply submits the movement to the worker pool and waits for its outcome
func (p *PooledEngine) Apply(ctx context.Context, mv Movement) (*Result, error) {
	done := make(chan applyOutcome, 1)

	err := p.pool.Submit(func() {
		result, applyErr := p.base.Apply(ctx, mv)
		done <- applyOutcome{result: result, err: applyErr}
	})
	if err != nil {
		if err == ants.ErrPoolClosed {
			return nil, ErrEngineClosed
		}
		p.logger.Error("Failed to submit movement to worker pool", "error", err)
		return nil, err
	}

	outcome := <-done
	return outcome.result, outcome.err
}

// Shutdown releases the worker pool. In-flight movements finish first.
func (p *PooledEngine) Shutdown() {
	p.logger.Info("Shutting down movement worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// Running returns the number of movements currently being applied
func (p *PooledEngine) Running() int {
	return p.pool.Running()
}

// Capacity returns the size of the worker pool
func (p *PooledEngine) Capacity() int {
	return p.pool.Cap()
}
