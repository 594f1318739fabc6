package texture

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts the admission scheduler and the refresh sweep and blocks until
// ctx is cancelled or Close is called. Both loops run under one
// errgroup.Group sharing a derived context; neither loop recovers panics,
// and both return nil when they stop, so Run returns nil (grounded on
// am-sokolov-go-astc-encoder's codec2d.go worker-pool idiom: a fixed
// dispatch loop gating admission through a weighted semaphore, each unit of
// work handed to its own goroutine).
func (p *Pipeline) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return p.runScheduler(ctx)
	})
	group.Go(func() error {
		return p.runRefresh(ctx)
	})

	return group.Wait()
}

// runScheduler pulls admitted asset ids off p.admit, acquires a semaphore
// slot (§4.4 "Admission: bounded concurrency"), and hands each to its own
// goroutine so a slow transfer never blocks the next admission.
func (p *Pipeline) runScheduler(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case id := <-p.admit:
			req, ok := p.registry.Get(id)
			if !ok {
				// Aborted between admission and scheduling; nothing to do.
				continue
			}
			if err := p.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			go func(req *Request) {
				defer p.sem.Release(1)
				p.dispatch(ctx, req)
			}(req)
		}
	}
}
