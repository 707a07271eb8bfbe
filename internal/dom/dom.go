package dom

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSyntax = errors.New("unsupported expression syntax")
	ErrForeignNode       = errors.New("node does not belong to this backend")
)

// Syntax identifies the query language of an Expression
type Syntax int

const (
	SyntaxXPath Syntax = iota
	SyntaxCSS
)

// String returns the string representation of the syntax
func (s Syntax) String() string {
	switch s {
	case SyntaxXPath:
		return "xpath"
	case SyntaxCSS:
		return "css"
	default:
		return "unknown"
	}
}

// Expression is a backend query. The finder never inspects Source.
type Expression struct {
	Syntax Syntax
	Source string
}

// XPath creates an XPath expression
func XPath(source string) Expression {
	return Expression{Syntax: SyntaxXPath, Source: source}
}

// CSS creates a CSS selector expression
func CSS(source string) Expression {
	return Expression{Syntax: SyntaxCSS, Source: source}
}

func (e Expression) String() string {
	return fmt.Sprintf("%s(%s)", e.Syntax, e.Source)
}

// Node is a raw match returned by a backend.
type Node interface {
	TagName() string
	// Text is the rendered text, whitespace-normalized
	Text() string
	Visible() bool
	Attr(name string) (string, bool)
	Value() string
	Checked() bool
	// Selected returns the texts of selected options for select and option
	// elements, nil otherwise
	Selected() []string
	HTML() string
}

// Backend resolves expressions against a live or static document.
type Backend interface {
	// Name identifies the backend in logs and metrics
	Name() string
	// Root returns the document scope
	Root(ctx context.Context) (Node, error)
	// Query returns matches below scope in document order
	Query(ctx context.Context, scope Node, expr Expression) ([]Node, error)
	// Dynamic reports whether the document can change between queries
	Dynamic() bool
}
