package selector

import (
	"fmt"
	"regexp"
	"time"
)

// Options is the caller-facing option bag. It may trail any argument list.
type Options struct {
	// Text is a string (matched literally, as a substring) or *regexp.Regexp
	Text any
	// Visible overrides the ignore-hidden default when set
	Visible *bool
	// Selected is a string or []string of accepted selected-option texts
	Selected any
	// Message replaces the not-found message
	Message string
	// Wait overrides the default wait for this call
	Wait *time.Duration
	// Filters are forwarded to kind-specific matchers
	Filters map[string]any
}

// FilterOptions is the normalized form of Options. Visible is always
// resolved and Text is always a compiled pattern.
type FilterOptions struct {
	Text     *regexp.Regexp
	Visible  bool
	Selected []string
	Message  string
	Wait     *time.Duration
	Filters  map[string]any
}

// Bool returns a pointer to b, for Options.Visible
func Bool(b bool) *bool {
	return &b
}

// Wait returns a pointer to d, for Options.Wait
func Wait(d time.Duration) *time.Duration {
	return &d
}

// Normalize pops a trailing Options bag from a copy of args and returns the
// positional arguments with the normalized FilterOptions appended, together
// with those FilterOptions.
func Normalize(args []any, ignoreHidden bool) ([]any, FilterOptions) {
	positional := append([]any(nil), args...)

	var opts Options
	if n := len(positional); n > 0 {
		switch last := positional[n-1].(type) {
		case Options:
			opts = last
			positional = positional[:n-1]
		case *Options:
			if last != nil {
				opts = *last
			}
			positional = positional[:n-1]
		}
	}

	normalized := FilterOptions{
		Text:     textPattern(opts.Text),
		Visible:  ignoreHidden,
		Selected: selectedValues(opts.Selected),
		Message:  opts.Message,
		Wait:     opts.Wait,
	}
	if opts.Visible != nil {
		normalized.Visible = *opts.Visible
	}
	if len(opts.Filters) > 0 {
		normalized.Filters = make(map[string]any, len(opts.Filters))
		for k, v := range opts.Filters {
			normalized.Filters[k] = v
		}
	}

	return append(positional, normalized), normalized
}

func textPattern(text any) *regexp.Regexp {
	switch t := text.(type) {
	case nil:
		return nil
	case *regexp.Regexp:
		return t
	case string:
		return regexp.MustCompile(regexp.QuoteMeta(t))
	default:
		return regexp.MustCompile(regexp.QuoteMeta(fmt.Sprint(t)))
	}
}

func selectedValues(selected any) []string {
	switch s := selected.(type) {
	case nil:
		return nil
	case string:
		return []string{s}
	case []string:
		return s
	case fmt.Stringer:
		return []string{s.String()}
	default:
		return []string{fmt.Sprint(s)}
	}
}
