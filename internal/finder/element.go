package finder

import (
	"context"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

// Element is a matched node together with where it was found. Elements are
// produced fresh by every query pass and are never cached.
type Element struct {
	node     dom.Node
	session  *Session
	parent   *Element
	selector *selector.Selector
}

// Node returns the raw backend node
func (e *Element) Node() dom.Node { return e.node }

// Parent returns the scope element, or nil for the document
func (e *Element) Parent() *Element { return e.parent }

// Selector returns the selector that matched this element
func (e *Element) Selector() *selector.Selector { return e.selector }

// Session returns the session the element was found through
func (e *Element) Session() *Session { return e.session }

// TagName returns the lower-case element name
func (e *Element) TagName() string { return e.node.TagName() }

// Text returns the rendered, whitespace-normalized text
func (e *Element) Text() string { return e.node.Text() }

// Visible reports whether the element is rendered
func (e *Element) Visible() bool { return e.node.Visible() }

// Attr returns the named attribute and whether it is present
func (e *Element) Attr(name string) (string, bool) { return e.node.Attr(name) }

// Value returns the form value
func (e *Element) Value() string { return e.node.Value() }

// Checked reports the checked state of checkboxes and radio buttons
func (e *Element) Checked() bool { return e.node.Checked() }

// Selected returns the texts of selected options
func (e *Element) Selected() []string { return e.node.Selected() }

// HTML returns the outer HTML
func (e *Element) HTML() string { return e.node.HTML() }

// Find waits for a matching descendant of e
func (e *Element) Find(ctx context.Context, args ...any) (*Element, error) {
	return e.session.find(ctx, opFind, e, args)
}

// First returns the first matching descendant of e, or nil
func (e *Element) First(ctx context.Context, args ...any) (*Element, error) {
	return e.session.first(ctx, e, args)
}

// All returns every matching descendant of e
func (e *Element) All(ctx context.Context, args ...any) ([]*Element, error) {
	return e.session.all(ctx, e, args)
}

// FindField is Find below e with the field kind
func (e *Element) FindField(ctx context.Context, args ...any) (*Element, error) {
	return e.session.find(ctx, opFind, e, pin(selector.Field, args))
}

// FindLink is Find below e with the link kind
func (e *Element) FindLink(ctx context.Context, args ...any) (*Element, error) {
	return e.session.find(ctx, opFind, e, pin(selector.Link, args))
}

// FindButton is Find below e with the button kind
func (e *Element) FindButton(ctx context.Context, args ...any) (*Element, error) {
	return e.session.find(ctx, opFind, e, pin(selector.Button, args))
}

// FindByID is Find below e with the id kind
func (e *Element) FindByID(ctx context.Context, args ...any) (*Element, error) {
	return e.session.find(ctx, opFind, e, pin(selector.ID, args))
}

// HasSelector waits for a matching descendant and reports whether one appeared
func (e *Element) HasSelector(ctx context.Context, args ...any) (bool, error) {
	return e.session.has(ctx, e, args, true)
}

// HasNoSelector waits for matching descendants to disappear
func (e *Element) HasNoSelector(ctx context.Context, args ...any) (bool, error) {
	return e.session.has(ctx, e, args, false)
}

// Within finds a descendant and runs fn scoped to it
func (e *Element) Within(ctx context.Context, fn func(*Element) error, args ...any) error {
	return e.session.within(ctx, e, fn, args)
}

// pin prepends kind to a copy of args
func pin(kind selector.Name, args []any) []any {
	return append([]any{kind}, args...)
}
