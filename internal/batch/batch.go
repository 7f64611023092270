// Package batch builds and validates every item of a parameter set.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/json2video/internal/builder"
	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/orchestrator"
	"github.com/ivlev/json2video/internal/params"
)

// Item is the outcome for one parameter item. Err is set when the item's
// parameters could not be collected; Build and Outcome are then empty.
type Item struct {
	Index   int
	Input   builder.Input
	Build   builder.BuildResult
	Outcome orchestrator.Outcome
	Err     error
}

func (it Item) CanProceed() bool {
	return it.Err == nil && it.Outcome.CanProceed
}

type Runner struct {
	builder *builder.Builder
	orch    *orchestrator.Orchestrator
	opts    orchestrator.Options
	workers int
	log     logger.Logger
}

type Option func(*Runner)

// WithWorkers bounds how many items are processed at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithOptions(opts orchestrator.Options) Option {
	return func(r *Runner) {
		r.opts = opts
	}
}

// WithLogger pins the runner's logger. Without it the logger carried by
// the context passed to Run is used.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRunner(b *builder.Builder, o *orchestrator.Orchestrator, opts ...Option) *Runner {
	if b == nil {
		b = builder.New()
	}
	if o == nil {
		o = orchestrator.New(nil)
	}
	r := &Runner{
		builder: b,
		orch:    o,
		opts:    orchestrator.DefaultOptions(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every item of store. Results keep item order. Cancellation
// is observed between items; an item already started runs to completion.
func (r *Runner) Run(ctx context.Context, store params.Store) ([]Item, error) {
	n := store.Len()
	items := make([]Item, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = r.RunItem(gctx, store, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// RunItem builds and validates a single item synchronously.
func (r *Runner) RunItem(ctx context.Context, store params.Store, index int) Item {
	it := Item{Index: index}
	log := r.logFor(ctx).With("item", index+1)

	in, err := params.Collect(store, index)
	if err != nil {
		log.Warn("parameters rejected", "error", err)
		it.Err = err
		return it
	}
	it.Input = in
	it.Build = r.builder.Build(in)
	it.Outcome = r.orch.ValidateBuild(it.Build, r.opts)

	log.Info(it.Outcome.Summary(), "canProceed", it.Outcome.CanProceed)
	return it
}

func (r *Runner) logFor(ctx context.Context) logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.FromContext(ctx)
}

// AllProceed reports whether every item may be submitted.
func AllProceed(items []Item) bool {
	for _, it := range items {
		if !it.CanProceed() {
			return false
		}
	}
	return true
}
