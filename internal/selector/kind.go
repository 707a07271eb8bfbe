package selector

import (
	"regexp"
	"sort"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// Name identifies a selector kind. A Name leading an argument list selects
// the kind; a bare locator uses the configured default kind.
type Name string

const (
	XPath         Name = "xpath"
	CSS           Name = "css"
	ID            Name = "id"
	Field         Name = "field"
	FillableField Name = "fillable_field"
	Checkbox      Name = "checkbox"
	RadioButton   Name = "radio_button"
	FileField     Name = "file_field"
	Select        Name = "select"
	Option        Name = "option"
	Link          Name = "link"
	Button        Name = "button"
	LinkOrButton  Name = "link_or_button"
	Fieldset      Name = "fieldset"
	Table         Name = "table"
)

// Filter is a kind-specific predicate fed with the caller-supplied value
type Filter func(node dom.Node, value any) bool

// Kind is one entry of the selector strategy table.
type Kind struct {
	Name Name
	// Label names the kind in failure messages; defaults to Name
	Label string
	// Expressions builds one or more queries from a locator. An empty
	// locator means "any element of this kind".
	Expressions func(locator string) []dom.Expression
	// Filters are the option keys callers may use with this kind
	Filters map[string]Filter
	// MatchLocator enables pattern locators
	MatchLocator func(node dom.Node, pattern *regexp.Regexp) bool
	// FailureMessage overrides the default not-found message
	FailureMessage func(scope dom.Node, sel *Selector) string
}

func (k *Kind) label() string {
	if k.Label != "" {
		return k.Label
	}
	return string(k.Name)
}

// Describe returns the label used in messages
func (k *Kind) Describe() string {
	return k.label()
}

// FilterKeys returns the supported filter option keys, sorted
func (k *Kind) FilterKeys() []string {
	keys := make([]string, 0, len(k.Filters))
	for key := range k.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
