// Package model defines the reflected symbol facts consumed by apigen.
package model

// Kind indicates the syntactic kind of a reflected symbol.
type Kind string

const (
	Class     Kind = "class"
	Method    Kind = "method"
	Property  Kind = "property"
	Constant  Kind = "constant"
	Function  Kind = "function"
	Extension Kind = "extension"
)

// Visibility of a class member.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Keys under which a docblock's description text is stored in Annotations.
// The leading space keeps them from colliding with any @tag name.
const (
	ShortDescription = " short_description"
	LongDescription  = " long_description"
)

// Annotations maps an annotation name to its raw values in source order.
type Annotations map[string][]string

// First returns the first value recorded for name and whether name is present.
func (a Annotations) First(name string) (string, bool) {
	values, ok := a[name]
	if !ok || len(values) == 0 {
		return "", ok
	}
	return values[0], true
}

// Clone returns a copy that shares no slices with a.
func (a Annotations) Clone() Annotations {
	out := make(Annotations, len(a))
	for name, values := range a {
		out[name] = append([]string(nil), values...)
	}
	return out
}

// File holds the facts about a single source file.
type File struct {
	Path        string
	Annotations Annotations
}

// Symbol is a structural fact-set about one program element.
type Symbol struct {
	Name       string // fully qualified, e.g. Foo\Bar::baz
	ShortName  string
	Kind       Kind
	Namespace  string
	Visibility Visibility
	Line       int

	Tokenized  bool // declared in parsed source
	Internal   bool // recognised language built-in
	Deprecated bool

	Annotations Annotations

	File           *File   // nil for built-ins
	DeclaringClass *Symbol // set for methods, properties and class constants
	Extension      *Symbol // owning extension module, built-ins only

	Parent     string   // extended class name, classes only
	Interfaces []string // implemented or extended interfaces
}
