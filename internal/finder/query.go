package finder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

// scope resolves the node a lookup searches below
func (s *Session) scope(ctx context.Context, parent *Element) (dom.Node, error) {
	if parent != nil {
		return parent.node, nil
	}
	root, err := s.backend.Root(ctx)
	if err != nil {
		s.metrics.RecordBackendError(s.backend.Name())
		return nil, fmt.Errorf("resolve document root: %w", err)
	}
	return root, nil
}

// execute runs one expression and wraps the raw matches. No filtering.
func (s *Session) execute(ctx context.Context, scope dom.Node, parent *Element, sel *selector.Selector, expr dom.Expression) ([]*Element, error) {
	nodes, err := s.backend.Query(ctx, scope, expr)
	if err != nil {
		s.metrics.RecordBackendError(s.backend.Name())
		s.logger.Debug("backend query failed",
			zap.String("backend", s.backend.Name()),
			zap.Stringer("expr", expr),
			zap.Error(err))
		return nil, fmt.Errorf("query %s: %w", expr, err)
	}

	elements := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &Element{
			node:     n,
			session:  s,
			parent:   parent,
			selector: sel,
		})
	}
	return elements, nil
}

// pass is the outcome of running every expression of a selector once
type pass struct {
	failed  int
	total   int
	lastErr error
}

// err reports the last backend error when no expression could be queried
func (p pass) err() error {
	if p.total > 0 && p.failed == p.total {
		return p.lastErr
	}
	return nil
}

// collect runs every expression once and returns all filtered matches in
// expression order, then document order
func (s *Session) collect(ctx context.Context, parent *Element, sel *selector.Selector) ([]*Element, pass) {
	var p pass
	scope, err := s.scope(ctx, parent)
	if err != nil {
		return nil, pass{failed: 1, total: 1, lastErr: err}
	}

	matches := make([]*Element, 0)
	for _, expr := range sel.Expressions() {
		p.total++
		candidates, err := s.execute(ctx, scope, parent, sel, expr)
		if err != nil {
			p.failed++
			p.lastErr = err
			continue
		}
		for _, el := range candidates {
			if sel.Matches(el.node) {
				matches = append(matches, el)
			}
		}
	}
	return matches, p
}

// pick runs one pass and returns the first match. Under preferVisible the
// first visible match wins; if none is visible the first match seen during
// the pass is returned.
func (s *Session) pick(ctx context.Context, parent *Element, sel *selector.Selector, preferVisible bool) (*Element, pass) {
	var p pass
	scope, err := s.scope(ctx, parent)
	if err != nil {
		return nil, pass{failed: 1, total: 1, lastErr: err}
	}

	var fallback *Element
	for _, expr := range sel.Expressions() {
		p.total++
		candidates, err := s.execute(ctx, scope, parent, sel, expr)
		if err != nil {
			p.failed++
			p.lastErr = err
			continue
		}
		for _, el := range candidates {
			if !sel.Matches(el.node) {
				continue
			}
			if !preferVisible || el.node.Visible() {
				return el, p
			}
			if fallback == nil {
				fallback = el
			}
		}
	}
	return fallback, p
}
