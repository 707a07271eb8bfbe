package selector

import "github.com/GriffinCanCode/domfinder/internal/dom"

// Matches reports whether node satisfies every filter of the selector.
// Checks run in a fixed order and stop at the first failure: visibility,
// text, selected options, then kind-specific filters.
func (s *Selector) Matches(node dom.Node) bool {
	opts := s.options

	// Visible=false accepts hidden and visible nodes alike
	if opts.Visible && !node.Visible() {
		return false
	}
	if opts.Text != nil && !opts.Text.MatchString(node.Text()) {
		return false
	}
	if opts.Selected != nil && !intersects(node.Selected(), opts.Selected) {
		return false
	}

	if s.locator.Pattern != nil && !s.kind.MatchLocator(node, s.locator.Pattern) {
		return false
	}
	for _, key := range s.filterKeys {
		if !s.kind.Filters[key](node, opts.Filters[key]) {
			return false
		}
	}
	return true
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
