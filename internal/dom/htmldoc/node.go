package htmldoc

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Node adapts *html.Node to dom.Node
type Node struct {
	n *html.Node
}

// Wrap returns the dom view of n
func Wrap(n *html.Node) *Node {
	return &Node{n: n}
}

// Raw returns the wrapped html node
func (n *Node) Raw() *html.Node {
	return n.n
}

// TagName returns the lower-case element name
func (n *Node) TagName() string {
	if n.n.Type == html.DocumentNode {
		return "#document"
	}
	return n.n.Data
}

// Text returns the rendered, whitespace-normalized text
func (n *Node) Text() string {
	return NormalizeWhitespace(ExtractText(n.n))
}

// Visible reports whether the element is rendered
func (n *Node) Visible() bool {
	return IsVisible(n.n)
}

// Attr returns the named attribute and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	if !htmlquery.ExistsAttr(n.n, name) {
		return "", false
	}
	return htmlquery.SelectAttr(n.n, name), true
}

// Value returns the form value
func (n *Node) Value() string {
	switch n.n.Data {
	case "textarea":
		return htmlquery.InnerText(n.n)
	case "select":
		if opt := selectedOptions(n.n); len(opt) > 0 {
			return optionValue(opt[0])
		}
		return ""
	case "option":
		return optionValue(n.n)
	}
	return htmlquery.SelectAttr(n.n, "value")
}

// Checked reports whether the checked attribute is set
func (n *Node) Checked() bool {
	return htmlquery.ExistsAttr(n.n, "checked")
}

// Selected returns the texts of selected options
func (n *Node) Selected() []string {
	switch n.n.Data {
	case "select":
		opts := selectedOptions(n.n)
		texts := make([]string, 0, len(opts))
		for _, opt := range opts {
			texts = append(texts, NormalizeWhitespace(ExtractText(opt)))
		}
		return texts
	case "option":
		if htmlquery.ExistsAttr(n.n, "selected") {
			return []string{NormalizeWhitespace(ExtractText(n.n))}
		}
		return []string{}
	}
	return nil
}

// HTML returns the outer HTML
func (n *Node) HTML() string {
	return htmlquery.OutputHTML(n.n, true)
}

// ExtractText collects text nodes below n, skipping non-rendered elements
func ExtractText(n *html.Node) string {
	var buf bytes.Buffer
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && nonRendered[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return buf.String()
}

// NormalizeWhitespace collapses multiple spaces into one
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var nonRendered = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
}

// IsVisible reports whether neither n nor an ancestor is hidden
func IsVisible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if nonRendered[cur.Data] || htmlquery.ExistsAttr(cur, "hidden") {
			return false
		}
		if cur.Data == "input" && strings.EqualFold(htmlquery.SelectAttr(cur, "type"), "hidden") {
			return false
		}
		style := strings.ToLower(strings.ReplaceAll(htmlquery.SelectAttr(cur, "style"), " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

// selectedOptions mirrors browser defaults: a single select with no explicit
// selection reports its first option.
func selectedOptions(sel *html.Node) []*html.Node {
	var all, picked []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "option" {
				all = append(all, c)
				if htmlquery.ExistsAttr(c, "selected") {
					picked = append(picked, c)
				}
				continue
			}
			walk(c)
		}
	}
	walk(sel)

	if len(picked) == 0 && len(all) > 0 && !htmlquery.ExistsAttr(sel, "multiple") {
		return all[:1]
	}
	return picked
}

func optionValue(opt *html.Node) string {
	if htmlquery.ExistsAttr(opt, "value") {
		return htmlquery.SelectAttr(opt, "value")
	}
	return NormalizeWhitespace(ExtractText(opt))
}
