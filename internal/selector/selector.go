package selector

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// Locator is the string or pattern a selector was built from
type Locator struct {
	Text    string
	Pattern *regexp.Regexp
}

// String renders the locator for messages: quoted text or /pattern/
func (l Locator) String() string {
	if l.Pattern != nil {
		return "/" + l.Pattern.String() + "/"
	}
	return fmt.Sprintf("%q", l.Text)
}

// Selector is an immutable, fully expanded description of what to find.
type Selector struct {
	kind        *Kind
	locator     Locator
	options     FilterOptions
	expressions []dom.Expression
	filterKeys  []string
}

// New resolves the kind and expands the locator. args are the positional
// arguments produced by Normalize: an optional leading Name, exactly one
// locator, and an optional trailing FilterOptions.
func New(reg *Registry, args []any, defaultKind Name) (*Selector, error) {
	positional := args
	var opts FilterOptions
	if n := len(positional); n > 0 {
		if fo, ok := positional[n-1].(FilterOptions); ok {
			opts = fo
			positional = positional[:n-1]
		}
	}

	name := defaultKind
	if len(positional) > 0 {
		if n, ok := positional[0].(Name); ok {
			name = n
			positional = positional[1:]
		}
	}

	kind, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	if len(positional) != 1 {
		return nil, fmt.Errorf("%w: %s expects one locator, got %d", ErrInvalidLocator, name, len(positional))
	}
	locator, err := parseLocator(positional[0])
	if err != nil {
		return nil, err
	}
	if locator.Pattern != nil && kind.MatchLocator == nil {
		return nil, fmt.Errorf("%w: %s does not accept pattern locators", ErrInvalidLocator, name)
	}

	keys := make([]string, 0, len(opts.Filters))
	for key := range opts.Filters {
		if _, ok := kind.Filters[key]; !ok {
			return nil, fmt.Errorf("%w: %q is not supported by %s", ErrInvalidFilter, key, name)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	exprs := kind.Expressions(locator.Text)
	if len(exprs) == 0 {
		return nil, fmt.Errorf("%w: %s produced no expressions", ErrInvalidKind, name)
	}

	return &Selector{
		kind:        kind,
		locator:     locator,
		options:     opts,
		expressions: exprs,
		filterKeys:  keys,
	}, nil
}

func parseLocator(v any) (Locator, error) {
	switch l := v.(type) {
	case string:
		return Locator{Text: l}, nil
	case *regexp.Regexp:
		if l == nil {
			return Locator{}, fmt.Errorf("%w: nil pattern", ErrInvalidLocator)
		}
		return Locator{Pattern: l}, nil
	case fmt.Stringer:
		return Locator{Text: l.String()}, nil
	default:
		return Locator{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidLocator, v)
	}
}

// Name returns the kind name
func (s *Selector) Name() Name {
	return s.kind.Name
}

// Label returns the human readable kind name
func (s *Selector) Label() string {
	return s.kind.label()
}

// Locator returns the locator the selector was built from
func (s *Selector) Locator() Locator {
	return s.locator
}

// Options returns the normalized filter options
func (s *Selector) Options() FilterOptions {
	return s.options
}

// Expressions returns the backend queries in declaration order
func (s *Selector) Expressions() []dom.Expression {
	return append([]dom.Expression(nil), s.expressions...)
}

// FailureMessage returns the kind-specific message, or "" when the kind
// has no hook
func (s *Selector) FailureMessage(scope dom.Node) string {
	if s.kind.FailureMessage == nil {
		return ""
	}
	return s.kind.FailureMessage(scope, s)
}

// String describes the selector for logs and default messages
func (s *Selector) String() string {
	return s.Label() + " " + s.locator.String()
}
