// Package names canonicalizes package and namespace names so that
// case-insensitive variants collapse onto one spelling for a whole run.
package names

import (
	"strings"
	"sync"
)

// Canonicalizer holds independent package and namespace tables.
// The zero value is not usable; call New.
type Canonicalizer struct {
	packages   table
	namespaces table
}

// New returns an empty Canonicalizer.
func New() *Canonicalizer {
	return &Canonicalizer{
		packages:   table{seen: make(map[string]string)},
		namespaces: table{seen: make(map[string]string)},
	}
}

// Package returns the canonical spelling of a package name.
func (c *Canonicalizer) Package(name string) string {
	return c.packages.canonicalize(name)
}

// Namespace returns the canonical spelling of a namespace name.
func (c *Canonicalizer) Namespace(name string) string {
	return c.namespaces.canonicalize(name)
}

// Packages returns the canonical package names recorded so far, unordered.
func (c *Canonicalizer) Packages() []string {
	return c.packages.values()
}

// Namespaces returns the canonical namespace names recorded so far, unordered.
func (c *Canonicalizer) Namespaces() []string {
	return c.namespaces.values()
}

type table struct {
	mu   sync.Mutex
	seen map[string]string // lower-cased name -> first spelling seen
}

// canonicalize records name on first sight of its lower-cased form and
// returns the recorded spelling afterwards.
func (t *table) canonicalize(name string) string {
	key := strings.ToLower(name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if canonical, ok := t.seen[key]; ok {
		return canonical
	}
	t.seen[key] = name
	return name
}

func (t *table) values() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.seen))
	for _, v := range t.seen {
		out = append(out, v)
	}
	return out
}
