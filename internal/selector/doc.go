// Package selector turns declarative lookups into backend queries.
//
// A lookup is a variadic argument list: an optional kind Name, one locator
// and an optional trailing Options bag. Normalize canonicalizes the bag, New
// resolves the kind in a Registry and expands the locator into one or more
// dom.Expression values, and Selector.Matches applies the filter pipeline to
// candidate nodes.
//
// Components:
//   - Registry: thread-safe strategy table of selector kinds
//   - Builtins: form, link, button, table and raw XPath/CSS kinds
//   - Definitions: custom kinds loaded from YAML or TOML files
//
// Filter order:
//   - visibility (only when Visible is set)
//   - text pattern
//   - selected option intersection
//   - kind filters, pattern locator first
//
// Example Usage:
//
//	reg := selector.DefaultRegistry()
//	args, _ := selector.Normalize([]any{selector.Field, "Email", selector.Options{Visible: selector.Bool(true)}}, false)
//	sel, err := selector.New(reg, args, selector.CSS)
package selector
