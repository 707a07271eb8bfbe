// Package finder locates document elements by declarative selectors,
// tolerating documents that are still loading or being changed by scripts.
//
// A Session binds a dom.Backend to a selector registry and an immutable
// Settings snapshot. All and First run exactly one query pass. Find repeats
// First through a resilience.Poller until a match appears or the wait,
// fixed when the call starts, has elapsed; static backends get a single
// attempt. Exhaustion yields a *NotFoundError.
//
// Every lookup is also available on *Element, where it only sees
// descendants of that element.
//
// Example Usage:
//
//	doc, _ := htmldoc.LoadFile("page.html")
//	s := finder.New(doc, finder.WithSettings(settings))
//	el, err := s.FindField(ctx, "Email", selector.Options{Visible: selector.Bool(true)})
//	if errors.Is(err, finder.ErrElementNotFound) {
//		...
//	}
package finder
