// Package group selects documented elements and groups them for rendering.
package group

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thinkbox/apigen/internal/element"
	"github.com/thinkbox/apigen/internal/model"
)

// By names the grouping key.
type By string

const (
	ByPackage   By = "package"
	ByNamespace By = "namespace"
)

// ParseBy validates a grouping key.
func ParseBy(s string) (By, error) {
	switch By(s) {
	case ByPackage, ByNamespace:
		return By(s), nil
	}
	return "", fmt.Errorf("unknown grouping %q (want %q or %q)", s, ByPackage, ByNamespace)
}

// Group is one package or namespace and its elements.
type Group struct {
	Name     string
	Elements []*element.Element
}

// Documented returns the elements that should appear in the documentation,
// sorted by name. Members are only kept when their declaring class is kept.
// If mainOnly is set, elements outside the main project are dropped.
func Documented(elems []*element.Element, mainOnly bool) []*element.Element {
	var out []*element.Element
	for _, e := range elems {
		if e.Kind() == model.Extension || !e.IsDocumented() {
			continue
		}
		if class := e.DeclaringClass(); class != nil && !class.IsDocumented() {
			continue
		}
		if mainOnly && !e.IsMain() {
			continue
		}
		out = append(out, e)
	}
	sortByName(out)
	return out
}

// Build groups elements by their pseudo package or pseudo namespace name.
// Members are placed in their declaring class's group. Groups are sorted by
// name; element order within a group is preserved.
func Build(elems []*element.Element, by By) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, e := range elems {
		owner := e
		if class := e.DeclaringClass(); class != nil {
			owner = class
		}
		name := owner.PseudoPackageName()
		if by == ByNamespace {
			name = owner.PseudoNamespaceName()
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Elements = append(groups[i].Elements, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// FilterByName returns the elements whose name contains substr
// (case-insensitive), together with the members of matched classes.
func FilterByName(elems []*element.Element, substr string) []*element.Element {
	lower := strings.ToLower(substr)

	matched := make(map[*element.Element]struct{})
	for _, e := range elems {
		if strings.Contains(strings.ToLower(e.Name()), lower) {
			matched[e] = struct{}{}
		}
	}

	var out []*element.Element
	for _, e := range elems {
		if _, ok := matched[e]; ok {
			out = append(out, e)
			continue
		}
		if class := e.DeclaringClass(); class != nil {
			if _, ok := matched[class]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func sortByName(elems []*element.Element) {
	sort.SliceStable(elems, func(i, j int) bool {
		return elems[i].Name() < elems[j].Name()
	})
}
