package element

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/thinkbox/apigen/internal/docblock"
	"github.com/thinkbox/apigen/internal/model"
)

// Labels substituted for the package or namespace of symbols that have none.
const (
	BuiltinLabel = "PHP"
	NoneLabel    = "None"
)

// inheritedFromFile are the annotations a top-level symbol takes from its
// declaring file when it has no value of its own.
var inheritedFromFile = []string{"package", "subpackage", "author", "license", "copyright"}

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	packageSeparators = strings.NewReplacer(".", `\`, "_", `\`, "/", `\`)
)

// Element decorates one reflected symbol with documentation metadata.
type Element struct {
	sym *model.Symbol
	reg *Registry

	annotations lazy[model.Annotations]
	documented  lazy[bool]
	deprecated  lazy[bool]
	short       lazy[string]
}

// Name returns the fully qualified symbol name.
func (e *Element) Name() string { return e.sym.Name }

// Kind returns the symbol kind.
func (e *Element) Kind() model.Kind { return e.sym.Kind }

// DeclaringClass returns the Element of the declaring class, or nil.
func (e *Element) DeclaringClass() *Element {
	if e.sym.DeclaringClass == nil {
		return nil
	}
	return e.reg.Element(e.sym.DeclaringClass)
}

// Extension returns the Element of the extension module providing the
// symbol, or nil.
func (e *Element) Extension() *Element {
	if e.sym.Extension == nil {
		return nil
	}
	return e.reg.Element(e.sym.Extension)
}

// IsMain reports whether the symbol belongs to the main project. This is a
// plain prefix match: main "Foo" also matches "FooBar\Baz".
func (e *Element) IsMain() bool {
	main := e.reg.cfg.Main
	return main == "" || strings.HasPrefix(e.sym.Name, main)
}

// IsDocumented reports whether the symbol should appear in the documentation.
func (e *Element) IsDocumented() bool {
	return e.documented.get(e.resolveDocumented)
}

func (e *Element) resolveDocumented() bool {
	if !e.sym.Tokenized && !e.sym.Internal {
		return false
	}

	cfg := e.reg.cfg
	switch {
	case e.sym.Internal && !cfg.IncludeBuiltins:
		return false
	case !cfg.IncludeDeprecated && e.IsDeprecated():
		return false
	case !cfg.IncludeInternal && e.hasEmptyInternal():
		return false
	case e.hasAnnotation("ignore"):
		return false
	}
	return true
}

// hasEmptyInternal reports an @internal tag without text. An @internal tag
// carrying text is a note, not a request to hide the symbol. Only "" counts
// as empty; "0" is text here.
func (e *Element) hasEmptyInternal() bool {
	values, ok := e.Annotation("internal")
	return ok && len(values) > 0 && values[0] == ""
}

func (e *Element) hasAnnotation(name string) bool {
	values, ok := e.Annotation(name)
	return ok && len(values) > 0
}

// IsDeprecated reports whether the symbol or, for class members, its
// declaring class is deprecated.
func (e *Element) IsDeprecated() bool {
	return e.deprecated.get(func() bool {
		if e.sym.Deprecated {
			return true
		}
		switch e.sym.Kind {
		case model.Method, model.Property, model.Constant:
			if class := e.DeclaringClass(); class != nil {
				return class.IsDeprecated()
			}
		}
		return false
	})
}

// InPackage reports whether the symbol has a package name.
func (e *Element) InPackage() bool {
	return e.PackageName() != ""
}

// PackageName returns the @package name merged with @subpackage, using `\`
// as the separator, or "" if there is no @package.
func (e *Element) PackageName() string {
	pkg, ok := e.Annotation("package")
	if !ok || len(pkg) == 0 {
		return ""
	}

	name := firstToken(pkg[0])
	if sub, ok := e.Annotation("subpackage"); ok && len(sub) > 0 {
		// An empty @subpackage leaves the package alone instead of adding a
		// trailing separator.
		if subName := firstToken(sub[0]); subName != "" {
			if strings.HasPrefix(subName, name) {
				name = subName
			} else {
				name += `\` + subName
			}
		}
	}

	return e.reg.names.Package(packageSeparators.Replace(name))
}

// PseudoPackageName returns BuiltinLabel for built-ins, otherwise the package
// name or NoneLabel.
func (e *Element) PseudoPackageName() string {
	if e.sym.Internal {
		return BuiltinLabel
	}
	if name := e.PackageName(); name != "" {
		return name
	}
	return NoneLabel
}

// NamespaceName returns the canonical namespace name, or "" in the global
// namespace.
func (e *Element) NamespaceName() string {
	if e.sym.Namespace == "" {
		return ""
	}
	return e.reg.names.Namespace(e.sym.Namespace)
}

// PseudoNamespaceName returns BuiltinLabel for built-ins, otherwise the
// namespace name or NoneLabel.
func (e *Element) PseudoNamespaceName() string {
	if e.sym.Internal {
		return BuiltinLabel
	}
	if name := e.NamespaceName(); name != "" {
		return name
	}
	return NoneLabel
}

// ShortDescription returns the docblock summary. Properties and constants
// without one fall back to the text following the type in @var.
func (e *Element) ShortDescription() string {
	return e.short.get(func() string {
		if short := docblock.Text(e.sym.Annotations, model.ShortDescription); short != "" {
			return short
		}
		switch e.sym.Kind {
		case model.Property, model.Constant:
			if v, ok := e.sym.Annotations.First("var"); ok {
				if parts := whitespaceRe.Split(v, 2); len(parts) == 2 {
					return parts[1]
				}
			}
		}
		return ""
	})
}

// LongDescription returns the short description followed by a blank line and
// the long description, or just the short description when there is none.
func (e *Element) LongDescription() string {
	short := e.ShortDescription()
	if long := docblock.Text(e.sym.Annotations, model.LongDescription); long != "" {
		return short + "\n\n" + long
	}
	return short
}

// Annotations returns the symbol's annotations without description markers.
// Classes, functions and top-level constants inherit package, subpackage,
// author, license and copyright from their file. The returned map is cached
// and shared by later calls.
func (e *Element) Annotations() model.Annotations {
	return e.annotations.get(e.resolveAnnotations)
}

func (e *Element) resolveAnnotations() model.Annotations {
	annotations := e.sym.Annotations.Clone()
	delete(annotations, model.ShortDescription)
	delete(annotations, model.LongDescription)

	if e.inheritsFileAnnotations() && e.sym.File != nil {
		for _, name := range inheritedFromFile {
			if len(annotations[name]) > 0 {
				continue
			}
			if values, ok := e.sym.File.Annotations[name]; ok && len(values) > 0 {
				annotations[name] = append([]string(nil), values...)
			}
		}
	}
	return annotations
}

func (e *Element) inheritsFileAnnotations() bool {
	switch e.sym.Kind {
	case model.Class, model.Function:
		return true
	case model.Constant:
		return e.sym.DeclaringClass == nil
	}
	return false
}

// Annotation returns the values of one annotation and whether it is present.
func (e *Element) Annotation(name string) ([]string, bool) {
	values, ok := e.Annotations()[name]
	return values, ok
}

// AddAnnotation appends value to the named annotation. Repeated calls append
// duplicates.
func (e *Element) AddAnnotation(name, value string) *Element {
	annotations := e.Annotations()
	annotations[name] = append(annotations[name], value)
	return e
}

// firstToken returns s up to its first whitespace.
func firstToken(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}
