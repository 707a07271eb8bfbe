// Package rodpage queries a live Chrome page through go-rod. The page keeps
// running its own scripts, so the backend is always dynamic.
package rodpage

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// Backend adapts a rod page
type Backend struct {
	page *rod.Page
}

// New wraps an already navigated page
func New(page *rod.Page) *Backend {
	return &Backend{page: page}
}

// Name identifies the backend in logs and metrics
func (b *Backend) Name() string { return "rod" }

// Dynamic is true; the page runs its own scripts
func (b *Backend) Dynamic() bool { return true }

// Root returns the page document
func (b *Backend) Root(ctx context.Context) (dom.Node, error) {
	return &documentNode{page: b.page.Context(ctx)}, nil
}

// Query evaluates expr below scope in the live page
func (b *Backend) Query(ctx context.Context, scope dom.Node, expr dom.Expression) ([]dom.Node, error) {
	var (
		found rod.Elements
		err   error
	)

	switch s := scope.(type) {
	case *documentNode:
		page := b.page.Context(ctx)
		switch expr.Syntax {
		case dom.SyntaxXPath:
			found, err = page.ElementsX(expr.Source)
		case dom.SyntaxCSS:
			found, err = page.Elements(expr.Source)
		default:
			return nil, fmt.Errorf("%w: %s", dom.ErrUnsupportedSyntax, expr.Syntax)
		}
	case *Node:
		el := s.el.Context(ctx)
		switch expr.Syntax {
		case dom.SyntaxXPath:
			found, err = el.ElementsX(expr.Source)
		case dom.SyntaxCSS:
			found, err = el.Elements(expr.Source)
		default:
			return nil, fmt.Errorf("%w: %s", dom.ErrUnsupportedSyntax, expr.Syntax)
		}
	default:
		return nil, dom.ErrForeignNode
	}
	if err != nil {
		return nil, err
	}

	nodes := make([]dom.Node, 0, len(found))
	for _, el := range found {
		nodes = append(nodes, &Node{el: el})
	}
	return nodes, nil
}
