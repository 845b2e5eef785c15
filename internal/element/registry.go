// Package element resolves documentation metadata for reflected symbols:
// whether a symbol is documented, its package and namespace, descriptions and
// annotations.
//
// A Registry is scoped to one documentation run. It owns the run's
// configuration, its name canonicalizer and exactly one Element per symbol.
// Elements memoize their derived views and are not safe for concurrent
// mutation through AddAnnotation.
package element

import (
	"sync"

	"github.com/thinkbox/apigen/internal/config"
	"github.com/thinkbox/apigen/internal/model"
)

// NameCanonicalizer maps case-insensitive package and namespace variants onto
// one spelling for the lifetime of a run.
type NameCanonicalizer interface {
	Package(name string) string
	Namespace(name string) string
}

// Registry hands out the Element of each symbol of a run.
type Registry struct {
	cfg   config.Config
	names NameCanonicalizer

	mu       sync.Mutex
	elements map[*model.Symbol]*Element
}

// NewRegistry returns a Registry for one run. It panics if names is nil.
func NewRegistry(cfg config.Config, names NameCanonicalizer) *Registry {
	if names == nil {
		panic("element: nil NameCanonicalizer")
	}
	return &Registry{
		cfg:      cfg,
		names:    names,
		elements: make(map[*model.Symbol]*Element),
	}
}

// Element returns the Element wrapping sym, creating it on first request.
// It panics if sym is nil.
func (r *Registry) Element(sym *model.Symbol) *Element {
	if sym == nil {
		panic("element: nil symbol")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.elements[sym]; ok {
		return e
	}
	e := &Element{sym: sym, reg: r}
	r.elements[sym] = e
	return e
}

// Elements returns the Elements of syms in the same order.
func (r *Registry) Elements(syms []*model.Symbol) []*Element {
	out := make([]*Element, len(syms))
	for i, s := range syms {
		out[i] = r.Element(s)
	}
	return out
}

// lazy is a value computed on first access.
type lazy[T any] struct {
	once sync.Once
	v    T
}

func (l *lazy[T]) get(compute func() T) T {
	l.once.Do(func() { l.v = compute() })
	return l.v
}
