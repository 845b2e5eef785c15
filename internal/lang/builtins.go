package lang

import "strings"

// Builtin describes a symbol provided by the PHP runtime or a bundled extension.
type Builtin struct {
	Name       string
	Extension  string
	Parent     string
	Interfaces []string
	Deprecated bool
}

var builtinClasses = []Builtin{
	{Name: "stdClass", Extension: "Core"},
	{Name: "Closure", Extension: "Core"},
	{Name: "Generator", Extension: "Core", Interfaces: []string{"Iterator"}},
	{Name: "Traversable", Extension: "Core"},
	{Name: "Iterator", Extension: "Core", Interfaces: []string{"Traversable"}},
	{Name: "IteratorAggregate", Extension: "Core", Interfaces: []string{"Traversable"}},
	{Name: "ArrayAccess", Extension: "Core"},
	{Name: "Countable", Extension: "Core"},
	{Name: "Serializable", Extension: "Core", Deprecated: true},
	{Name: "Stringable", Extension: "Core"},
	{Name: "Throwable", Extension: "Core", Interfaces: []string{"Stringable"}},
	{Name: "Exception", Extension: "Core", Interfaces: []string{"Throwable"}},
	{Name: "Error", Extension: "Core", Interfaces: []string{"Throwable"}},
	{Name: "ErrorException", Extension: "Core", Parent: "Exception"},
	{Name: "TypeError", Extension: "Core", Parent: "Error"},
	{Name: "JsonSerializable", Extension: "json"},
	{Name: "JsonException", Extension: "json", Parent: "Exception"},
	{Name: "DateTimeInterface", Extension: "date"},
	{Name: "DateTime", Extension: "date", Interfaces: []string{"DateTimeInterface"}},
	{Name: "DateTimeImmutable", Extension: "date", Interfaces: []string{"DateTimeInterface"}},
	{Name: "DateInterval", Extension: "date"},
	{Name: "LogicException", Extension: "SPL", Parent: "Exception"},
	{Name: "InvalidArgumentException", Extension: "SPL", Parent: "LogicException"},
	{Name: "DomainException", Extension: "SPL", Parent: "LogicException"},
	{Name: "RuntimeException", Extension: "SPL", Parent: "Exception"},
	{Name: "UnexpectedValueException", Extension: "SPL", Parent: "RuntimeException"},
	{Name: "OutOfBoundsException", Extension: "SPL", Parent: "RuntimeException"},
	{Name: "ArrayObject", Extension: "SPL", Interfaces: []string{"IteratorAggregate", "ArrayAccess", "Countable"}},
	{Name: "ArrayIterator", Extension: "SPL", Interfaces: []string{"Iterator", "ArrayAccess", "Countable"}},
	{Name: "SplObjectStorage", Extension: "SPL", Interfaces: []string{"Countable", "Iterator", "ArrayAccess"}},
	{Name: "SplStack", Extension: "SPL", Interfaces: []string{"Iterator", "ArrayAccess", "Countable"}},
}

var builtinIndex = func() map[string]Builtin {
	m := make(map[string]Builtin, len(builtinClasses))
	for _, b := range builtinClasses {
		m[strings.ToLower(b.Name)] = b
	}
	return m
}()

// LookupBuiltin returns the built-in class with the given name. Class names
// are case-insensitive and a leading namespace separator is ignored.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtinIndex[strings.ToLower(strings.TrimPrefix(name, `\`))]
	return b, ok
}
