// Package pipeline implements the lazily realized, dedup-by-path,
// buffer-once async stream of Resources, and its algebra of combinators
// (Union, Add, AddSummaries, Map, Filter, Move, Transform, Diversify,
// GroupBy, ForEach, ForEachWithReloading, GetLastModified).
package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/tangerg/pagestream/asyncstream"
	"github.com/tangerg/pagestream/resource"
	"github.com/tangerg/pagestream/transform"
)

// Monitor is an async event stream signalling that a Source's underlying
// state may have changed (spec.md §4.7). Events carry no payload.
type Monitor = asyncstream.Reader[struct{}]

// SourceFunc produces a fresh async Resource stream; it must be
// restartable, yielding a new iteration on every call.
type SourceFunc func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error)

// MonitorFunc produces the change-event stream for a root Source. A root
// without reload support has a nil MonitorFunc.
type MonitorFunc func(ctx context.Context) (Monitor, error)

// sharedState is shared by a Pipeline and everything derived from it, so
// that a single reload invalidates every buffer in the chain at once
// without each Pipeline needing to track its children.
type sharedState struct {
	monitor MonitorFunc

	mu  sync.Mutex
	gen int
}

func (s *sharedState) generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// invalidate bumps the shared generation counter. Every Pipeline sharing
// this state will treat its buffer as stale and re-drain on next access.
func (s *sharedState) invalidate() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// rawReaderFunc produces one realization's worth of (not yet deduped, not
// yet buffered) Resources for a Pipeline.
type rawReaderFunc func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error)

// Pipeline is a lazily-evaluated, buffer-once, composable stream of
// Resources. Combinators return new Pipelines; none mutate the receiver.
type Pipeline struct {
	shared *sharedState
	raw    rawReaderFunc

	mu          sync.Mutex
	hasBuffer   bool
	bufferedGen int
	buffer      []*resource.Resource
}

func newPipeline(shared *sharedState, raw rawReaderFunc) *Pipeline {
	return &Pipeline{shared: shared, raw: raw}
}

// FromResources wraps a fixed, eagerly-available slice of Resources
// (spec.md §4.6 case (a)).
func FromResources(resources []*resource.Resource) *Pipeline {
	snapshot := append([]*resource.Resource(nil), resources...)
	return newPipeline(&sharedState{}, func(context.Context) (asyncstream.Reader[*resource.Resource], error) {
		return asyncstream.OfSlice(snapshot), nil
	})
}

// FromReader wraps an async Resource stream factory with no reload support
// (spec.md §4.6 case (b)).
func FromReader(factory SourceFunc) *Pipeline {
	return newPipeline(&sharedState{}, factory)
}

// FromSource wraps an async Resource stream factory together with an
// optional Monitor factory (spec.md §4.6 case (c)). A nil monitor behaves
// like FromReader.
func FromSource(factory SourceFunc, monitor MonitorFunc) *Pipeline {
	return newPipeline(&sharedState{monitor: monitor}, factory)
}

// recordingReader wraps a deduped raw reader, accumulating every value it
// yields; on a clean EOF it commits the accumulated slice back to the
// owning Pipeline as its realized buffer (spec.md §4.6: "emits to consumer
// AND appends to buffer").
type recordingReader struct {
	pipeline *Pipeline
	upstream asyncstream.Reader[*resource.Resource]
	gen      int
	acc      []*resource.Resource
	done     bool
}

func (r *recordingReader) Read(ctx context.Context) (*resource.Resource, error) {
	if r.done {
		return nil, io.EOF
	}
	v, err := r.upstream.Read(ctx)
	if err == io.EOF {
		r.done = true
		r.pipeline.commitBuffer(r.gen, r.acc)
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	r.acc = append(r.acc, v)
	return v, nil
}

func (p *Pipeline) commitBuffer(gen int, resources []*resource.Resource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.shared.generation() {
		return // superseded by a reload while we were draining; don't cache stale data
	}
	p.buffer = resources
	p.bufferedGen = gen
	p.hasBuffer = true
}

// reader returns this realization's Resource stream: the buffered slice if
// still valid, otherwise a fresh drain of the raw upstream with
// first-seen-wins path dedup applied at this Pipeline's level (spec.md
// §4.6: dedup is re-applied at every stage, since a transformer such as
// move() can introduce fresh path collisions that did not exist upstream).
func (p *Pipeline) reader(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
	p.mu.Lock()
	gen := p.shared.generation()
	if p.hasBuffer && p.bufferedGen == gen {
		buf := p.buffer
		p.mu.Unlock()
		return asyncstream.OfSlice(buf), nil
	}
	p.mu.Unlock()

	raw, err := p.raw(ctx)
	if err != nil {
		return nil, err
	}
	deduped := asyncstream.DistinctBy(raw, func(r *resource.Resource) string { return r.Path() })
	return &recordingReader{pipeline: p, upstream: deduped, gen: gen}, nil
}

func stageFrom(upstream *Pipeline, build func(ctx context.Context, up asyncstream.Reader[*resource.Resource]) (asyncstream.Reader[*resource.Resource], error)) *Pipeline {
	return newPipeline(upstream.shared, func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
		up, err := upstream.reader(ctx)
		if err != nil {
			return nil, err
		}
		return build(ctx, up)
	})
}

// Union concatenates this Pipeline's stream with other's; dedup applies
// across the concatenation at the new Pipeline's own level.
func (p *Pipeline) Union(other *Pipeline) *Pipeline {
	return newPipeline(p.shared, func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
		a, err := p.reader(ctx)
		if err != nil {
			return nil, err
		}
		b, err := other.reader(ctx)
		if err != nil {
			return nil, err
		}
		return asyncstream.MultiReader(a, b), nil
	})
}

// Add prepends a single Resource, guaranteeing it replaces any existing
// Resource at the same path under this Pipeline's first-wins dedup.
func (p *Pipeline) Add(r *resource.Resource) *Pipeline {
	return newPipeline(p.shared, func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
		base, err := p.reader(ctx)
		if err != nil {
			return nil, err
		}
		return asyncstream.MultiReader(asyncstream.OfSlice([]*resource.Resource{r}), base), nil
	})
}

// Summarizer computes summary Resources from a (possibly filtered) view of
// a Pipeline.
type Summarizer func(ctx context.Context, view *Pipeline) ([]*resource.Resource, error)

// AddSummaries invokes summarizer against this Pipeline (optionally
// filtered by predicate first) and prepends its results, like Add.
func (p *Pipeline) AddSummaries(summarizer Summarizer, predicate ...func(*resource.Resource) bool) *Pipeline {
	view := p
	if len(predicate) > 0 {
		view = p.Filter(predicate[0])
	}
	return newPipeline(p.shared, func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
		summaries, err := summarizer(ctx, view)
		if err != nil {
			return nil, err
		}
		base, err := p.reader(ctx)
		if err != nil {
			return nil, err
		}
		return asyncstream.MultiReader(asyncstream.OfSlice(summaries), base), nil
	})
}

// Map applies each ResourceTransformer in order to every Resource of the
// upstream, lazily.
func (p *Pipeline) Map(transformers ...transform.ResourceTransformer) *Pipeline {
	return stageFrom(p, func(ctx context.Context, up asyncstream.Reader[*resource.Resource]) (asyncstream.Reader[*resource.Resource], error) {
		return asyncstream.Map(up, func(r *resource.Resource) (*resource.Resource, error) {
			cur := r
			for _, t := range transformers {
				next, err := t(cur)
				if err != nil {
					return nil, err
				}
				cur = next
			}
			return cur, nil
		}), nil
	})
}

// Filter drops Resources failing any predicate, lazily.
func (p *Pipeline) Filter(predicates ...func(*resource.Resource) bool) *Pipeline {
	return stageFrom(p, func(ctx context.Context, up asyncstream.Reader[*resource.Resource]) (asyncstream.Reader[*resource.Resource], error) {
		return asyncstream.Filter(up, func(r *resource.Resource) (bool, error) {
			for _, pred := range predicates {
				if !pred(r) {
					return false, nil
				}
			}
			return true, nil
		}), nil
	})
}

// Move is shorthand for Map(transform.Move(pathFn)).
func (p *Pipeline) Move(pathFn func(path string) (string, error)) *Pipeline {
	return p.Map(transform.Move(pathFn))
}

// Transform is shorthand for Map(transform.Transform(contentFn, criterion)).
func (p *Pipeline) Transform(contentFn transform.ContentTransformer, criterion ...any) *Pipeline {
	return p.Map(transform.Transform(contentFn, criterion...))
}

// Diversify is shorthand for Map(transform.Diversify(contentFn, criterion)).
func (p *Pipeline) Diversify(contentFn transform.ContentTransformer, criterion ...any) *Pipeline {
	return p.Map(transform.Diversify(contentFn, criterion...))
}

// Monitor returns the root Source's change-event stream, if any.
func (p *Pipeline) Monitor(ctx context.Context) (Monitor, bool, error) {
	if p.shared.monitor == nil {
		return nil, false, nil
	}
	mon, err := p.shared.monitor(ctx)
	if err != nil {
		return nil, false, err
	}
	return mon, true, nil
}
