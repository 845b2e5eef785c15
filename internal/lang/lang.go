// Package lang provides the tree-sitter PHP language configuration and the
// catalog of recognised built-in symbols.
package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
}

// PHP is the only language apigen reflects.
var PHP = &Language{
	Name:       "php",
	Extensions: []string{".php", ".phtml", ".inc"},
	lang:       php.GetLanguage(),
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	ext = strings.ToLower(ext)
	for _, e := range PHP.Extensions {
		if e == ext {
			return PHP.Name
		}
	}
	return ""
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
