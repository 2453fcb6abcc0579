package bridge

import (
	"context"
	"fmt"

	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/worker"
)

// Async runs host calls nobody waits for on the worker pool.
type Async struct {
	host Host
	pool *worker.Pool
}

// NewAsync wraps host with pool
func NewAsync(host Host, pool *worker.Pool) *Async {
	return &Async{host: host, pool: pool}
}

// Go queues fn. It reports false when the pool refused the job.
func (a *Async) Go(ctx context.Context, name string, fn func(ctx context.Context, h Host) error) bool {
	ok := a.pool.Enqueue(worker.JobFunc(func(jobCtx context.Context) error {
		if err := fn(jobCtx, a.host); err != nil {
			logger.FromContext(jobCtx).Debug(LogMsgAsyncCallFailed, "request", name, "error", err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}))
	if !ok {
		logger.FromContext(ctx).Debug(LogMsgAsyncQueueFull, "request", name)
	}
	return ok
}

func (a *Async) UILoaded(ctx context.Context) bool {
	return a.Go(ctx, CallUILoaded, func(ctx context.Context, h Host) error {
		return h.UILoaded(ctx)
	})
}

func (a *Async) RemoveComponent(ctx context.Context, component string, slot int) bool {
	return a.Go(ctx, CallRemoveComponent, func(ctx context.Context, h Host) error {
		return h.RemoveComponent(ctx, component, slot)
	})
}

func (a *Async) RemoveAmmo(ctx context.Context, slot int) bool {
	return a.Go(ctx, CallRemoveAmmo, func(ctx context.Context, h Host) error {
		return h.RemoveAmmo(ctx, slot)
	})
}

func (a *Async) UseButton(ctx context.Context, id, slot int) bool {
	return a.Go(ctx, CallUseButton, func(ctx context.Context, h Host) error {
		return h.UseButton(ctx, id, slot)
	})
}
