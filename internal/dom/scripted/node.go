package scripted

import (
	"golang.org/x/net/html"

	"github.com/GriffinCanCode/domfinder/internal/dom/htmldoc"
)

// Node is a match on a page. Timers rewrite the tree while other lookups
// read it, so every accessor takes the page lock.
type Node struct {
	page *Page
	node *htmldoc.Node
}

func (p *Page) node(n *html.Node) *Node {
	return &Node{page: p, node: htmldoc.Wrap(n)}
}

// Raw returns the underlying html node; callers must not read it while
// scripts may run
func (n *Node) Raw() *html.Node {
	return n.node.Raw()
}

// TagName returns the lower-case element name
func (n *Node) TagName() string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.TagName()
}

// Text returns the rendered, whitespace-normalized text
func (n *Node) Text() string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Text()
}

// Visible reports whether the element is rendered
func (n *Node) Visible() bool {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Visible()
}

// Attr returns the named attribute and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Attr(name)
}

// Value returns the form value
func (n *Node) Value() string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Value()
}

// Checked reports whether the checked attribute is set
func (n *Node) Checked() bool {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Checked()
}

// Selected returns the texts of selected options
func (n *Node) Selected() []string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.Selected()
}

// HTML returns the outer HTML
func (n *Node) HTML() string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.node.HTML()
}
