// Package core is the library entry point of kvtable: load a document,
// optionally select part of it with a CEL expression, and turn the result
// into table entries ready for table.Printer.
package core

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvtable/internal/cel"
	"github.com/oakwood-commons/kvtable/internal/formatter"
	"github.com/oakwood-commons/kvtable/internal/limiter"
	"github.com/oakwood-commons/kvtable/pkg/loader"
	"github.com/oakwood-commons/kvtable/pkg/table"
)

// Evaluator evaluates expressions against a root node.
type Evaluator interface {
	Evaluate(expr string, root any) (any, error)
}

// Flattener turns a node into table entries.
type Flattener interface {
	Entries(node any) []table.Entry
}

// EntryOptions controls the default Flattener.
type EntryOptions = formatter.EntryOptions

// Limit selects a window of the produced entries.
type Limit = limiter.Config

// Engine loads, selects and flattens documents.
type Engine struct {
	Evaluator Evaluator
	Flattener Flattener
	Limit     Limit

	lgr logr.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithFlattener sets a custom flattener.
func WithFlattener(f Flattener) Option {
	return func(c *Engine) {
		c.Flattener = f
	}
}

// WithEntryOptions configures the default flattener.
func WithEntryOptions(opts EntryOptions) Option {
	return func(c *Engine) {
		c.Flattener = defaultFlattener{opts: opts}
	}
}

// WithLimit keeps only a window of the entries.
func WithLimit(l Limit) Option {
	return func(c *Engine) {
		c.Limit = l
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Engine) {
		c.lgr = lgr
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		Flattener: defaultFlattener{opts: formatter.DefaultEntryOptions()},
		lgr:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if err := engine.Limit.Validate(); err != nil {
		return nil, err
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}
	return engine, nil
}

// LoadRoot parses input into a single root node; multi-doc inputs return a slice.
func LoadRoot(input string) (any, error) {
	return loader.LoadRoot(input)
}

// LoadFile reads a file and parses it into a single root node.
func LoadFile(path string) (any, error) {
	return loader.LoadFile(path)
}

// Evaluate runs the evaluator against root. An empty expression returns
// root unchanged. Ordered mappings are converted to plain maps first.
func (e *Engine) Evaluate(expr string, root any) (any, error) {
	if expr == "" {
		return root, nil
	}
	if e == nil || e.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is not configured")
	}
	node, err := e.Evaluator.Evaluate(expr, loader.Plain(root))
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}
	e.lgr.V(1).Info("evaluated expression", "expression", expr)
	return node, nil
}

// Entries selects the node addressed by expr and flattens it, applying the
// engine limit.
func (e *Engine) Entries(root any, expr string) ([]table.Entry, error) {
	node, err := e.Evaluate(expr, root)
	if err != nil {
		return nil, err
	}
	f := e.Flattener
	if f == nil {
		f = defaultFlattener{opts: formatter.DefaultEntryOptions()}
	}
	entries := f.Entries(node)
	if e.Limit.IsActive() {
		e.lgr.V(1).Info("limiting entries", "total", len(entries), "limit", e.Limit.Limit, "offset", e.Limit.Offset, "tail", e.Limit.Tail)
	}
	return limiter.Apply(e.Limit, entries), nil
}

// Stringify renders a node into a display string.
func Stringify(node any) string {
	return formatter.Stringify(node)
}

type defaultFlattener struct {
	opts EntryOptions
}

func (d defaultFlattener) Entries(node any) []table.Entry {
	return formatter.Entries(node, d.opts)
}
