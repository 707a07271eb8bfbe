package htmldoc

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// Document is a static parsed document. It never changes between queries.
type Document struct {
	root *html.Node
}

// New wraps an already parsed node tree
func New(root *html.Node) *Document {
	return &Document{root: root}
}

// Name identifies the backend in logs and metrics
func (d *Document) Name() string { return "htmldoc" }

// Dynamic is false; a parsed document never changes
func (d *Document) Dynamic() bool { return false }

// Root returns the document node
func (d *Document) Root(ctx context.Context) (dom.Node, error) {
	return Wrap(d.root), nil
}

// Query evaluates expr below scope, which must come from this backend
func (d *Document) Query(ctx context.Context, scope dom.Node, expr dom.Expression) ([]dom.Node, error) {
	n, ok := scope.(*Node)
	if !ok {
		return nil, dom.ErrForeignNode
	}
	matches, err := Select(n.Raw(), expr)
	if err != nil {
		return nil, err
	}
	nodes := make([]dom.Node, 0, len(matches))
	for _, m := range matches {
		nodes = append(nodes, Wrap(m))
	}
	return nodes, nil
}

var (
	xpathCache sync.Map
	cssCache   sync.Map
)

// Select evaluates expr below scope and returns element matches in document order
func Select(scope *html.Node, expr dom.Expression) ([]*html.Node, error) {
	switch expr.Syntax {
	case dom.SyntaxXPath:
		compiled, err := compileXPath(expr.Source)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", expr.Source, err)
		}
		return selectElements(scope, compiled), nil
	case dom.SyntaxCSS:
		sel, err := compileCSS(expr.Source)
		if err != nil {
			return nil, fmt.Errorf("css %q: %w", expr.Source, err)
		}
		return goquery.NewDocumentFromNode(scope).FindMatcher(sel).Nodes, nil
	default:
		return nil, fmt.Errorf("%w: %s", dom.ErrUnsupportedSyntax, expr.Syntax)
	}
}

func compileXPath(source string) (*xpath.Expr, error) {
	if cached, ok := xpathCache.Load(source); ok {
		return cached.(*xpath.Expr), nil
	}
	compiled, err := xpath.Compile(source)
	if err != nil {
		return nil, err
	}
	xpathCache.Store(source, compiled)
	return compiled, nil
}

func compileCSS(source string) (cascadia.Selector, error) {
	if cached, ok := cssCache.Load(source); ok {
		return cached.(cascadia.Selector), nil
	}
	compiled, err := cascadia.Compile(source)
	if err != nil {
		return nil, err
	}
	cssCache.Store(source, compiled)
	return compiled, nil
}

// selectElements evaluates expr and keeps element results only. Attribute
// and text results surface from htmlquery as synthetic nodes, so the
// navigator type decides.
func selectElements(scope *html.Node, expr *xpath.Expr) []*html.Node {
	var out []*html.Node
	iter := expr.Select(htmlquery.CreateXPathNavigator(scope))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*htmlquery.NodeNavigator)
		if !ok || nav.NodeType() != xpath.ElementNode {
			continue
		}
		out = append(out, nav.Current())
	}
	return out
}
