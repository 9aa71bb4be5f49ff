// Package workspace compiles many model roots against one class table
// concurrently. Each root is an independent task; one model failing to
// compile never cancels its siblings, and per-root outcomes (success or
// error) are collected for the caller.
package workspace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/moda-xyz/go-moda/ast"
	"github.com/moda-xyz/go-moda/compiler"
)

// Outcome is the per-root result of a batch run.
type Outcome struct {
	Root   string
	Output *compiler.Output
	Err    error
}

// Workspace runs batch compilations with a bounded worker pool and an
// optional result cache.
type Workspace struct {
	workers int
	cache   *ReportCache
	opts    []compiler.Option
}

// Option mutates a Workspace.
type Option func(*Workspace)

// WithWorkers bounds the number of concurrent compilations. Defaults to
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(w *Workspace) { w.workers = n }
}

// WithCache installs a result cache shared across runs.
func WithCache(c *ReportCache) Option {
	return func(w *Workspace) { w.cache = c }
}

// WithCompilerOptions forwards options to every compilation.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(w *Workspace) { w.opts = opts }
}

// New creates a workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{workers: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(w)
	}
	return w
}

// CompileAll compiles every root against the table and returns outcomes
// keyed by root name. The table is shared read-only across workers; callers
// must not mutate it while a batch runs. Only context cancellation aborts
// the batch early; compilation errors are recorded in the outcome map.
func (w *Workspace) CompileAll(ctx context.Context, table *ast.ClassTable, roots []string) (map[string]*Outcome, error) {
	log := FromContext(ctx)

	outcomes := make(map[string]*Outcome, len(roots))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for _, root := range roots {
		root := root
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := fingerprint(table, root)
			if w.cache != nil {
				if cached := w.cache.Get(key); cached != nil {
					log.Debug("cache hit", "model", root)
					mu.Lock()
					outcomes[root] = cached
					mu.Unlock()
					return nil
				}
			}

			out, err := compiler.Compile(table, root, w.opts...)
			oc := &Outcome{Root: root, Output: out, Err: err}
			if err != nil {
				log.Warn("compile failed", "model", root, "error", err)
			} else {
				log.Info("compiled", "model", root,
					"equations", out.Report.Balance.NumEquations,
					"unknowns", out.Report.Balance.NumUnknowns,
					"balanced", out.Report.Balance.IsBalanced)
				if w.cache != nil {
					w.cache.Put(key, oc)
				}
			}
			mu.Lock()
			outcomes[root] = oc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// fingerprint keys a cache entry on the root name plus the rendered content
// of every class in the table, so any edit anywhere invalidates the entry.
func fingerprint(table *ast.ClassTable, root string) string {
	h := sha256.New()
	h.Write([]byte(root))
	table.Range(func(name string, cls *ast.ClassDefinition) bool {
		h.Write([]byte{0})
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(cls.String()))
		return true
	})
	return hex.EncodeToString(h.Sum(nil))
}
