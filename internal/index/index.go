// Package index links the reflected symbols of a run: it resolves parent
// classes, synthesizes recognised built-ins and records cross references.
package index

import (
	"sort"
	"strings"

	"github.com/thinkbox/apigen/internal/element"
	"github.com/thinkbox/apigen/internal/lang"
	"github.com/thinkbox/apigen/internal/model"
	"github.com/thinkbox/apigen/internal/parse"
)

// Index holds every symbol of a run, parsed or synthesized.
type Index struct {
	Files   []*model.File
	Symbols []*model.Symbol

	byName     map[string]*model.Symbol // lower-cased name -> first declaration
	extensions map[string]*model.Symbol
}

// Build indexes parse results and adds a symbol for every parent class or
// interface that is not declared in source. Recognised built-ins become
// internal symbols; anything else is neither tokenized nor internal.
func Build(results []*parse.Result) *Index {
	idx := &Index{
		byName:     make(map[string]*model.Symbol),
		extensions: make(map[string]*model.Symbol),
	}

	for _, r := range results {
		idx.Files = append(idx.Files, r.File)
		for _, s := range r.Symbols {
			idx.add(s)
		}
	}

	// Iterate over a snapshot; ensure appends synthesized symbols.
	declared := append([]*model.Symbol(nil), idx.Symbols...)
	for _, s := range declared {
		if s.Kind != model.Class {
			continue
		}
		if s.Parent != "" {
			idx.ensure(s.Parent)
		}
		for _, iface := range s.Interfaces {
			idx.ensure(iface)
		}
	}

	return idx
}

// Lookup returns the symbol with the given name, ignoring case and a leading
// namespace separator.
func (idx *Index) Lookup(name string) *model.Symbol {
	return idx.byName[key(name)]
}

// Extensions returns the synthesized extension symbols sorted by name.
func (idx *Index) Extensions() []*model.Symbol {
	out := make([]*model.Symbol, 0, len(idx.extensions))
	for _, e := range idx.extensions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (idx *Index) add(s *model.Symbol) {
	idx.Symbols = append(idx.Symbols, s)
	if _, dup := idx.byName[key(s.Name)]; !dup {
		idx.byName[key(s.Name)] = s
	}
}

func (idx *Index) ensure(name string) *model.Symbol {
	if s := idx.Lookup(name); s != nil {
		return s
	}

	b, ok := lang.LookupBuiltin(name)
	if !ok {
		s := &model.Symbol{
			Name:      strings.TrimPrefix(name, `\`),
			ShortName: shortName(name),
			Kind:      model.Class,
			Namespace: namespaceOf(name),
		}
		idx.add(s)
		return s
	}

	s := &model.Symbol{
		Name:       b.Name,
		ShortName:  b.Name,
		Kind:       model.Class,
		Internal:   true,
		Deprecated: b.Deprecated,
		Extension:  idx.extension(b.Extension),
		Parent:     b.Parent,
		Interfaces: b.Interfaces,
	}
	idx.add(s)

	if b.Parent != "" {
		idx.ensure(b.Parent)
	}
	for _, iface := range b.Interfaces {
		idx.ensure(iface)
	}
	return s
}

func (idx *Index) extension(name string) *model.Symbol {
	if name == "" {
		return nil
	}
	if e, ok := idx.extensions[name]; ok {
		return e
	}
	e := &model.Symbol{Name: name, ShortName: name, Kind: model.Extension, Internal: true}
	idx.extensions[name] = e
	return e
}

// Edge is a recorded cross reference: Source uses Target.
type Edge struct {
	Source string
	Target string
}

// CrossReference gives every element named by another element's @uses a
// matching @usedby. Unresolvable targets and self references are skipped and
// each edge is recorded once. The recorded edges are returned sorted.
func CrossReference(reg *element.Registry, idx *Index) []Edge {
	seen := make(map[Edge]struct{})
	var edges []Edge

	for _, s := range idx.Symbols {
		src := reg.Element(s)
		uses, ok := src.Annotation("uses")
		if !ok {
			continue
		}
		for _, ref := range uses {
			target := idx.resolveReference(s, ref)
			if target == nil || target == s {
				continue
			}
			edge := Edge{Source: s.Name, Target: target.Name}
			if _, dup := seen[edge]; dup {
				continue
			}
			seen[edge] = struct{}{}
			reg.Element(target).AddAnnotation("usedby", s.Name)
			edges = append(edges, edge)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// resolveReference finds the symbol named by the first token of an
// annotation value such as "Foo\Bar::baz() description". Unqualified names
// are tried in the referring symbol's namespace first.
func (idx *Index) resolveReference(from *model.Symbol, ref string) *model.Symbol {
	name := ref
	if i := strings.IndexAny(name, " \t\r\n"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "()")
	if name == "" {
		return nil
	}

	if strings.HasPrefix(name, "::") && from.DeclaringClass != nil {
		name = from.DeclaringClass.Name + name
	} else if strings.HasPrefix(name, "::") && from.Kind == model.Class {
		name = from.Name + name
	}

	if from.Namespace != "" && !strings.HasPrefix(name, `\`) {
		if s := idx.Lookup(from.Namespace + `\` + name); s != nil {
			return s
		}
	}
	return idx.Lookup(name)
}

func key(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, `\`))
}

func shortName(name string) string {
	return name[strings.LastIndex(name, `\`)+1:]
}

func namespaceOf(name string) string {
	name = strings.TrimPrefix(name, `\`)
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[:i]
	}
	return ""
}
