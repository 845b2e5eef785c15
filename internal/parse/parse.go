// Package parse reflects PHP source files into symbols using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/thinkbox/apigen/internal/docblock"
	"github.com/thinkbox/apigen/internal/lang"
	"github.com/thinkbox/apigen/internal/model"
)

// ErrSyntax is returned for files the grammar could not parse cleanly.
// Error recovery can move declarations out of their enclosing class, so such
// files are rejected rather than reflected with misplaced symbols.
var ErrSyntax = errors.New("syntax error")

// Result holds everything reflected from one file.
type Result struct {
	File    *model.File
	Symbols []*model.Symbol
}

// blockTypes are statement containers that may hold declarations.
var blockTypes = map[string]struct{}{
	"compound_statement": {},
	"if_statement":       {},
	"else_clause":        {},
	"else_if_clause":     {},
	"colon_block":        {},
	"declare_statement":  {},
}

var classTypes = map[string]struct{}{
	"class_declaration":     {},
	"interface_declaration": {},
	"trait_declaration":     {},
	"enum_declaration":      {},
}

// ExtractSymbols parses a PHP source file and returns the reflected file and
// its symbols in declaration order. The parser must be created for PHP.
// filePath is used only for model.File.Path and should be repo-relative.
func ExtractSymbols(ctx context.Context, parser *sitter.Parser, source []byte, filePath string) (*Result, error) {
	file := &model.File{Path: filePath, Annotations: model.Annotations{}}
	res := &Result{File: file}
	if len(source) == 0 {
		return res, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w at line %d", ErrSyntax, errorLine(root))
	}
	if doc := fileDocComment(root, source); doc != "" {
		file.Annotations = docblock.Parse(doc)
	}

	w := &walker{source: source, file: file, res: res, uses: map[string]string{}}
	w.statements(root)
	return res, nil
}

// errorLine returns the 1-based line of the first ERROR or MISSING node.
func errorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.HasError() || child.IsMissing() {
			return errorLine(child)
		}
	}
	return int(node.StartPoint().Row) + 1
}

type walker struct {
	source    []byte
	file      *model.File
	res       *Result
	namespace string
	uses      map[string]string // lower-cased alias -> fully qualified name
}

func (w *walker) statements(parent *sitter.Node) {
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		node := parent.NamedChild(i)
		switch node.Type() {
		case "namespace_definition":
			w.enterNamespace(node)
		case "namespace_use_declaration":
			w.addUses(node)
		case "function_definition":
			w.function(node)
		case "const_declaration":
			w.constants(node, nil)
		default:
			if _, ok := classTypes[node.Type()]; ok {
				w.class(node)
				continue
			}
			if _, ok := blockTypes[node.Type()]; ok {
				w.statements(node)
			}
		}
	}
}

func (w *walker) enterNamespace(node *sitter.Node) {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
		name = w.text(n)
	}
	w.namespace = strings.Trim(name, `\`)
	w.uses = map[string]string{}

	if body := node.ChildByFieldName("body"); body != nil {
		w.statements(body)
		w.namespace = ""
		w.uses = map[string]string{}
	}
}

func (w *walker) addUses(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != "namespace_use_clause" {
			continue
		}
		var target, alias string
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			c := clause.NamedChild(j)
			switch c.Type() {
			case "qualified_name", "name":
				if target == "" {
					target = w.text(c)
				} else {
					alias = w.text(c)
				}
			case "namespace_aliasing_clause":
				if n := firstNamedOfType(c, "name"); n != nil {
					alias = w.text(n)
				}
			}
		}
		if target == "" {
			continue
		}
		target = strings.TrimPrefix(target, `\`)
		if alias == "" {
			alias = target[strings.LastIndex(target, `\`)+1:]
		}
		w.uses[strings.ToLower(alias)] = target
	}
}

func (w *walker) class(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	short := w.text(nameNode)
	sym := w.newSymbol(node, w.qualify(short), short, model.Class)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "base_clause":
			names := w.clauseNames(child)
			if node.Type() == "interface_declaration" {
				sym.Interfaces = append(sym.Interfaces, names...)
			} else if len(names) > 0 {
				sym.Parent = names[0]
			}
		case "class_interface_clause":
			sym.Interfaces = append(sym.Interfaces, w.clauseNames(child)...)
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			w.method(member, sym)
		case "property_declaration":
			w.properties(member, sym)
		case "const_declaration":
			w.constants(member, sym)
		}
	}
}

func (w *walker) method(node *sitter.Node, class *model.Symbol) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	short := w.text(nameNode)
	sym := w.newSymbol(node, class.Name+"::"+short, short, model.Method)
	w.member(sym, node, class)
}

func (w *walker) properties(node *sitter.Node, class *model.Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		el := node.NamedChild(i)
		if el.Type() != "property_element" {
			continue
		}
		v := firstNamedOfType(el, "variable_name")
		if v == nil {
			continue
		}
		short := strings.TrimPrefix(w.text(v), "$")
		sym := w.newSymbolWithDoc(node, el, class.Name+"::$"+short, short, model.Property)
		w.member(sym, node, class)
	}
}

// constants handles both class constants (class != nil) and top-level ones.
func (w *walker) constants(node *sitter.Node, class *model.Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		el := node.NamedChild(i)
		if el.Type() != "const_element" {
			continue
		}
		n := firstNamedOfType(el, "name")
		if n == nil {
			continue
		}
		short := w.text(n)
		if class == nil {
			w.newSymbolWithDoc(node, el, w.qualify(short), short, model.Constant)
			continue
		}
		sym := w.newSymbolWithDoc(node, el, class.Name+"::"+short, short, model.Constant)
		w.member(sym, node, class)
	}
}

func (w *walker) function(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	short := w.text(nameNode)
	w.newSymbol(node, w.qualify(short), short, model.Function)
}

func (w *walker) member(sym *model.Symbol, decl *sitter.Node, class *model.Symbol) {
	sym.DeclaringClass = class
	sym.Visibility = model.Public
	if v := firstNamedOfType(decl, "visibility_modifier"); v != nil {
		sym.Visibility = model.Visibility(strings.ToLower(w.text(v)))
	}
}

func (w *walker) newSymbol(node *sitter.Node, name, short string, kind model.Kind) *model.Symbol {
	return w.newSymbolWithDoc(node, node, name, short, kind)
}

// newSymbolWithDoc reads the doc comment attached to decl and records a
// symbol located at at.
func (w *walker) newSymbolWithDoc(decl, at *sitter.Node, name, short string, kind model.Kind) *model.Symbol {
	annotations := model.Annotations{}
	if doc := w.docComment(decl); doc != "" {
		annotations = docblock.Parse(doc)
	}
	_, deprecated := annotations["deprecated"]

	sym := &model.Symbol{
		Name:        name,
		ShortName:   short,
		Kind:        kind,
		Namespace:   w.namespace,
		Line:        int(at.StartPoint().Row) + 1,
		Tokenized:   true,
		Deprecated:  deprecated,
		Annotations: annotations,
		File:        w.file,
	}
	w.res.Symbols = append(w.res.Symbols, sym)
	return sym
}

// docComment returns the doc comment immediately preceding node, or "".
func (w *walker) docComment(node *sitter.Node) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := w.text(prev)
	if !docblock.IsDocComment(text) {
		return ""
	}
	return text
}

func (w *walker) clauseNames(clause *sitter.Node) []string {
	var out []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		if c.Type() == "name" || c.Type() == "qualified_name" {
			out = append(out, w.resolve(w.text(c)))
		}
	}
	return out
}

// resolve turns a class reference into a fully qualified name using the
// current namespace and use imports.
func (w *walker) resolve(ref string) string {
	if strings.HasPrefix(ref, `\`) {
		return ref[1:]
	}
	head, rest, qualified := strings.Cut(ref, `\`)
	if target, ok := w.uses[strings.ToLower(head)]; ok {
		if qualified {
			return target + `\` + rest
		}
		return target
	}
	return w.qualify(ref)
}

func (w *walker) qualify(name string) string {
	if w.namespace == "" {
		return name
	}
	return w.namespace + `\` + name
}

func (w *walker) text(node *sitter.Node) string {
	return lang.NodeText(node, w.source)
}

// fileDocComment returns the file-level doc comment: the first doc comment
// of the file unless it belongs to the declaration right after it.
func fileDocComment(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "php_tag", "text":
			continue
		case "comment":
			text := lang.NodeText(node, source)
			if !docblock.IsDocComment(text) {
				continue
			}
			if next := node.NextNamedSibling(); next != nil && isDeclaration(next) {
				return ""
			}
			return text
		default:
			return ""
		}
	}
	return ""
}

func isDeclaration(node *sitter.Node) bool {
	switch node.Type() {
	case "function_definition", "const_declaration":
		return true
	}
	_, ok := classTypes[node.Type()]
	return ok
}

func firstNamedOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
