package pipeline

import (
	"context"
	"io"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tangerg/pagestream/resource"
)

// Pending is deferred work a ForEach callback schedules for a Resource; a
// nil Pending means the callback completed synchronously. All Pendings
// returned during one ForEach pass are awaited concurrently after the
// iteration completes (spec.md §4.6).
type Pending func(ctx context.Context) error

// ForEachFunc is invoked once per realized Resource, in iteration order.
type ForEachFunc func(r *resource.Resource, index int) (Pending, error)

// ForEach is a terminal operation: it iterates p fully, in iteration
// order, invoking cb for each Resource. A synchronous cb error stops
// iteration immediately and is returned as-is. Once iteration completes,
// any Pendings collected along the way are awaited concurrently; their
// errors are aggregated with multierr (spec.md §7: "first error wins;
// others reported via an aggregate").
func (p *Pipeline) ForEach(ctx context.Context, cb ForEachFunc) error {
	reader, err := p.reader(ctx)
	if err != nil {
		return err
	}

	var pendings []Pending
	index := 0
	for {
		r, err := reader.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		pending, err := cb(r, index)
		if err != nil {
			return err
		}
		if pending != nil {
			pendings = append(pendings, pending)
		}
		index++
	}

	if len(pendings) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var aggregated error
	for _, pending := range pendings {
		pending := pending
		g.Go(func() error {
			if err := pending(gctx); err != nil {
				mu.Lock()
				aggregated = multierr.Append(aggregated, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return aggregated
}

// ForEachWithReloading runs an initial ForEach(cb), then, for each event on
// the root Monitor, invalidates every buffer sharing this Pipeline's
// lineage, awaits onReload (if provided), and runs ForEach(cb) again.
// Returns when the Monitor stream ends, or immediately after the initial
// pass if there is no Monitor.
func (p *Pipeline) ForEachWithReloading(ctx context.Context, cb ForEachFunc, onReload func(ctx context.Context) error) error {
	if err := p.ForEach(ctx, cb); err != nil {
		return err
	}

	mon, ok, err := p.Monitor(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for {
		_, err := mon.Read(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		p.shared.invalidate()
		if onReload != nil {
			if err := onReload(ctx); err != nil {
				return err
			}
		}
		if err := p.ForEach(ctx, cb); err != nil {
			return err
		}
	}
}
