// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/thinkbox/apigen/internal/element"
	"github.com/thinkbox/apigen/internal/group"
	"github.com/thinkbox/apigen/internal/index"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Document is the resolved metadata handed to the renderer.
type Document struct {
	Project string
	Root    string
	GroupBy group.By
	Groups  []group.Group
	UsedBy  []index.Edge

	// Extensions names the built-in extension modules documented elements
	// come from.
	Extensions []string
}

var elementColumns = []string{
	"name", "kind", "package", "namespace", "in_package",
	"deprecated", "main", "extension", "short", "long",
}

// Encode converts a Document into TOON format.
func Encode(doc *Document) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("project: %s", encodeValue(doc.Project)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(doc.Root)))

	var groupRows [][]any
	for i := range doc.Groups {
		g := &doc.Groups[i]
		groupRows = append(groupRows, []any{g.Name, len(g.Elements)})
	}
	groupTable := "packages"
	if doc.GroupBy == group.ByNamespace {
		groupTable = "namespaces"
	}
	parts = append(parts, formatTabular(groupTable, []string{"name", "elements"}, groupRows))

	var elementRows, annotationRows [][]any
	for i := range doc.Groups {
		for _, e := range doc.Groups[i].Elements {
			elementRows = append(elementRows, elementRow(e))
			annotationRows = append(annotationRows, annotationRowsOf(e)...)
		}
	}
	parts = append(parts, formatTabular("elements", elementColumns, elementRows))
	parts = append(parts, formatTabular("annotations", []string{"element", "name", "value"}, annotationRows))

	var extensionRows [][]any
	for _, name := range doc.Extensions {
		extensionRows = append(extensionRows, []any{name})
	}
	parts = append(parts, formatTabular("extensions", []string{"name"}, extensionRows))

	var usedByRows [][]any
	for _, edge := range doc.UsedBy {
		usedByRows = append(usedByRows, []any{edge.Target, edge.Source})
	}
	parts = append(parts, formatTabular("usedby", []string{"element", "user"}, usedByRows))

	return strings.Join(parts, "\n")
}

func elementRow(e *element.Element) []any {
	extension := ""
	if ext := e.Extension(); ext != nil {
		extension = ext.Name()
	}
	return []any{
		e.Name(),
		string(e.Kind()),
		e.PseudoPackageName(),
		e.PseudoNamespaceName(),
		e.InPackage(),
		e.IsDeprecated(),
		e.IsMain(),
		extension,
		e.ShortDescription(),
		e.LongDescription(),
	}
}

// annotationRowsOf lists one row per annotation value, names sorted.
func annotationRowsOf(e *element.Element) [][]any {
	annotations := e.Annotations()
	names := make([]string, 0, len(annotations))
	for name := range annotations {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]any
	for _, name := range names {
		values, _ := e.Annotation(name)
		for _, v := range values {
			rows = append(rows, []any{e.Name(), name, v})
		}
	}
	return rows
}

func formatTabular(name string, columns []string, rows [][]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeCell(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeCell(cell any) string {
	switch v := cell.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return encodeValue(v)
	}
	return encodeValue(fmt.Sprint(cell))
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
