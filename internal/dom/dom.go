// Package dom is a read-only document model with exactly two node kinds:
// Text and Element. It is built from an x/net/html tree so that rendering
// can be written as a pure function over a closed set of variants.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Node is either Text or *Element.
type Node interface {
	isNode()
}

// Text is raw character data with entities already decoded.
type Text string

// Element is a tag with attributes and ordered children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

func (Text) isNode()     {}
func (*Element) isNode() {}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(key string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[strings.ToLower(key)]
	return v, ok
}

// FromHTML converts an x/net/html node into the dom model. Comments and
// doctypes are dropped. Document and element nodes become *Element (the
// document node gets an empty tag); a nil or unsupported node yields nil.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode, html.DocumentNode:
		el := &Element{Tag: strings.ToLower(n.Data)}
		if n.Type == html.DocumentNode {
			el.Tag = ""
		}
		if len(n.Attr) > 0 {
			el.Attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				el.Attrs[strings.ToLower(a.Key)] = a.Val
			}
		}
		el.Children = Children(n)
		return el
	default:
		return nil
	}
}

// Children converts the child list of n, skipping unsupported node types.
func Children(n *html.Node) []Node {
	var out []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := FromHTML(c); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if el, ok := n.(*Element); ok {
		for _, c := range el.Children {
			Walk(c, fn)
		}
	}
}

// TextContent concatenates all text below n without any formatting.
func TextContent(n Node) string {
	var b strings.Builder
	Walk(n, func(cur Node) bool {
		if t, ok := cur.(Text); ok {
			b.WriteString(string(t))
		}
		return true
	})
	return b.String()
}
