package rodpage

import (
	"strings"

	"github.com/go-rod/rod"
)

// Node wraps a remote element. Every accessor is a round trip; failures
// (detached element, closed page) read as the zero value.
type Node struct {
	el *rod.Element
}

// Element returns the underlying rod element
func (n *Node) Element() *rod.Element {
	return n.el
}

// TagName returns the lower-case element name
func (n *Node) TagName() string {
	res, err := n.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// Text returns the rendered, whitespace-normalized text
func (n *Node) Text() string {
	text, err := n.el.Text()
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// Visible reports whether the element is rendered
func (n *Node) Visible() bool {
	visible, err := n.el.Visible()
	return err == nil && visible
}

// Attr returns the named attribute and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	val, err := n.el.Attribute(name)
	if err != nil || val == nil {
		return "", false
	}
	return *val, true
}

// Value returns the form value
func (n *Node) Value() string {
	prop, err := n.el.Property("value")
	if err != nil || prop.Nil() {
		return ""
	}
	return prop.Str()
}

// Checked reports the live checked property
func (n *Node) Checked() bool {
	prop, err := n.el.Property("checked")
	return err == nil && prop.Bool()
}

// Selected returns the texts of selected options
func (n *Node) Selected() []string {
	res, err := n.el.Eval(`() => {
		if (this.tagName === 'SELECT') return Array.from(this.selectedOptions).map(o => o.text.trim());
		if (this.tagName === 'OPTION') return this.selected ? [this.text.trim()] : [];
		return null;
	}`)
	if err != nil || res.Value.Nil() {
		return nil
	}
	items := res.Value.Arr()
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Str())
	}
	return texts
}

// HTML returns the outer HTML
func (n *Node) HTML() string {
	out, err := n.el.HTML()
	if err != nil {
		return ""
	}
	return out
}

// documentNode is the page-level scope
type documentNode struct {
	page *rod.Page
}

func (d *documentNode) TagName() string { return "#document" }

func (d *documentNode) Text() string {
	res, err := d.page.Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(res.Value.Str()), " ")
}

func (d *documentNode) Visible() bool { return true }

func (d *documentNode) Attr(string) (string, bool) { return "", false }

func (d *documentNode) Value() string { return "" }

func (d *documentNode) Checked() bool { return false }

func (d *documentNode) Selected() []string { return nil }

func (d *documentNode) HTML() string {
	out, err := d.page.HTML()
	if err != nil {
		return ""
	}
	return out
}
