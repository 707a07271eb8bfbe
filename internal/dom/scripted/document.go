package scripted

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/dom/htmldoc"
)

// installDocument exposes a minimal document API backed by the parsed tree
func (p *Page) installDocument() error {
	document := p.vm.NewObject()

	document.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if n := findByID(p.root, call.Argument(0).String()); n != nil {
			return p.wrap(n)
		}
		return goja.Null()
	})
	document.Set("querySelector", p.makeQuery(func() *html.Node { return p.root }, false))
	document.Set("querySelectorAll", p.makeQuery(func() *html.Node { return p.root }, true))
	document.Set("createElement", func(call goja.FunctionCall) goja.Value {
		tag := strings.ToLower(call.Argument(0).String())
		return p.wrap(&html.Node{
			Type:     html.ElementNode,
			Data:     tag,
			DataAtom: atom.Lookup([]byte(tag)),
		})
	})
	document.DefineAccessorProperty("body", p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if body := findElement(p.root, "body"); body != nil {
			return p.wrap(body)
		}
		return goja.Null()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	return p.vm.Set("document", document)
}

// wrap returns the single JS proxy for n
func (p *Page) wrap(n *html.Node) goja.Value {
	if obj, ok := p.wrappers[n]; ok {
		return obj
	}

	obj := p.vm.NewObject()
	obj.Set("tagName", strings.ToUpper(n.Data))
	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		for _, a := range n.Attr {
			if a.Key == name {
				return p.vm.ToValue(a.Val)
			}
		}
		return goja.Null()
	})
	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		for _, a := range n.Attr {
			if a.Key == name {
				return p.vm.ToValue(true)
			}
		}
		return p.vm.ToValue(false)
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		setAttr(n, call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		removeAttr(n, call.Argument(0).String())
		return goja.Undefined()
	})
	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := p.unwrap(call.Argument(0))
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		n.AppendChild(child)
		return call.Argument(0)
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return goja.Undefined()
	})
	obj.Set("querySelector", p.makeQuery(func() *html.Node { return n }, false))
	obj.Set("querySelectorAll", p.makeQuery(func() *html.Node { return n }, true))

	obj.DefineAccessorProperty("textContent",
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return p.vm.ToValue(htmldoc.ExtractText(n))
		}),
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			for c := n.FirstChild; c != nil; c = n.FirstChild {
				n.RemoveChild(c)
			}
			n.AppendChild(&html.Node{Type: html.TextNode, Data: call.Argument(0).String()})
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("hidden",
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := attr(n, "hidden")
			return p.vm.ToValue(ok)
		}),
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if call.Argument(0).ToBoolean() {
				setAttr(n, "hidden", "")
			} else {
				removeAttr(n, "hidden")
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("value",
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return p.vm.ToValue(htmldoc.Wrap(n).Value())
		}),
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			setAttr(n, "value", call.Argument(0).String())
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	p.wrappers[n] = obj
	p.nodes[obj] = n
	return obj
}

func (p *Page) unwrap(v goja.Value) *html.Node {
	obj, ok := v.(*goja.Object)
	if ok {
		if n, found := p.nodes[obj]; found {
			return n
		}
	}
	panic(p.vm.NewTypeError("argument is not an element"))
}

func (p *Page) makeQuery(scope func() *html.Node, all bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		matches, err := htmldoc.Select(scope(), dom.CSS(call.Argument(0).String()))
		if err != nil {
			panic(p.vm.NewTypeError(err.Error()))
		}
		if !all {
			if len(matches) == 0 {
				return goja.Null()
			}
			return p.wrap(matches[0])
		}
		items := make([]interface{}, 0, len(matches))
		for _, m := range matches {
			items = append(items, p.wrap(m))
		}
		return p.vm.NewArray(items...)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
