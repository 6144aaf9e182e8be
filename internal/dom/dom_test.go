package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	n, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestFromHTML_BuildsTaggedTree(t *testing.T) {
	root := FromHTML(parse(t, `<div ID="x" jsname="WbKHeb">one<br>two &amp; three<!-- c --></div>`))
	var div *Element
	Walk(root, func(n Node) bool {
		if el, ok := n.(*Element); ok && el.Tag == "div" {
			div = el
			return false
		}
		return true
	})
	if div == nil {
		t.Fatalf("div not found")
	}
	if v, ok := div.Attr("jsname"); !ok || v != "WbKHeb" {
		t.Fatalf("expected jsname attribute, got %q %v", v, ok)
	}
	if v, _ := div.Attr("id"); v != "x" {
		t.Fatalf("expected lower-cased attribute key lookup, got %q", v)
	}
	if len(div.Children) != 3 {
		t.Fatalf("expected text, br, text (comment dropped); got %d children", len(div.Children))
	}
	if _, ok := div.Children[0].(Text); !ok {
		t.Fatalf("first child should be Text")
	}
	if br, ok := div.Children[1].(*Element); !ok || br.Tag != "br" {
		t.Fatalf("second child should be br element")
	}
	if got := string(div.Children[2].(Text)); got != "two & three" {
		t.Fatalf("entities should be decoded, got %q", got)
	}
}

func TestTextContent(t *testing.T) {
	root := FromHTML(parse(t, `<p>a<b>b</b>c</p>`))
	if got := TextContent(root); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestFromHTML_Nil(t *testing.T) {
	if FromHTML(nil) != nil {
		t.Fatalf("expected nil")
	}
}
