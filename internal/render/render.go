package render

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/lyricsai/internal/dom"
)

// Decoder turns an HTML fragment into plain text. It is the single seam
// between markup and text so the decoding engine can be swapped in tests.
type Decoder interface {
	FragmentToText(fragment string) string
}

// HTMLDecoder is the default Decoder. Whitespace runs collapse to a single
// space, <br> becomes a newline, block elements are separated by a blank
// line and list items start on their own line.
type HTMLDecoder struct{}

// FragmentToText implements Decoder.
func (HTMLDecoder) FragmentToText(fragment string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return ""
	}
	w := &textWriter{}
	for _, n := range nodes {
		w.node(dom.FromHTML(n), false)
	}
	return finish(w.b.String())
}

// FragmentToText decodes fragment with the default HTMLDecoder.
func FragmentToText(fragment string) string {
	return HTMLDecoder{}.FragmentToText(fragment)
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// Text renders the inner markup of n to plain text.
func Text(n *html.Node) string {
	return FragmentToText(InnerHTML(n))
}

// Title returns the trimmed document <title>. Pages with an empty title fall
// back to their og:title meta tag, and "" is returned when neither is set.
func Title(doc *html.Node) string {
	var title, ogTitle string
	dom.Walk(dom.FromHTML(doc), func(n dom.Node) bool {
		if title != "" {
			return false
		}
		el, ok := n.(*dom.Element)
		if !ok {
			return true
		}
		switch el.Tag {
		case "title":
			title = strings.TrimSpace(dom.TextContent(el))
			return false
		case "meta":
			if p, _ := el.Attr("property"); ogTitle == "" && strings.EqualFold(p, "og:title") {
				content, _ := el.Attr("content")
				ogTitle = strings.TrimSpace(content)
			}
		}
		return true
	})
	if title == "" {
		return ogTitle
	}
	return title
}

var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "section": true, "article": true, "header": true, "footer": true,
	"ul": true, "ol": true, "table": true, "tr": true, "main": true, "aside": true, "nav": true,
}

// cellTags are separated from their neighbours by a space so adjacent table
// cells do not run together.
var cellTags = map[string]bool{"td": true, "th": true}

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// textWriter accumulates text while tracking line starts and pending
// whitespace so that no line begins or ends with a space.
type textWriter struct {
	b            strings.Builder
	pendingSpace bool
	lineStart    bool
}

func (w *textWriter) node(n dom.Node, inPre bool) {
	switch v := n.(type) {
	case dom.Text:
		if inPre {
			w.raw(string(v))
			return
		}
		w.text(string(v))
	case *dom.Element:
		if skippedTags[v.Tag] {
			return
		}
		switch {
		case v.Tag == "br":
			w.newline()
			return
		case v.Tag == "li":
			w.breakLines(1)
		case blockTags[v.Tag]:
			w.breakLines(2)
		case cellTags[v.Tag]:
			w.pendingSpace = true
		}
		pre := inPre || v.Tag == "pre"
		for _, c := range v.Children {
			w.node(c, pre)
		}
		switch {
		case v.Tag == "li":
			w.breakLines(1)
		case blockTags[v.Tag]:
			w.breakLines(2)
		case cellTags[v.Tag]:
			w.pendingSpace = true
		}
	}
}

func (w *textWriter) text(s string) {
	for _, r := range s {
		if isHTMLSpace(r) {
			w.pendingSpace = true
			continue
		}
		if w.pendingSpace && !w.lineStart && w.b.Len() > 0 {
			w.b.WriteByte(' ')
		}
		w.pendingSpace = false
		w.lineStart = false
		w.b.WriteRune(r)
	}
}

func (w *textWriter) raw(s string) {
	if s == "" {
		return
	}
	w.pendingSpace = false
	w.b.WriteString(s)
	w.lineStart = strings.HasSuffix(s, "\n")
}

func (w *textWriter) newline() {
	w.b.WriteByte('\n')
	w.pendingSpace = false
	w.lineStart = true
}

// breakLines ensures the output ends with at least n newlines. It is a no-op
// on empty output.
func (w *textWriter) breakLines(n int) {
	if w.b.Len() == 0 {
		return
	}
	s := w.b.String()
	have := len(s) - len(strings.TrimRight(s, "\n"))
	for ; have < n; have++ {
		w.b.WriteByte('\n')
	}
	w.pendingSpace = false
	w.lineStart = true
}

func isHTMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func finish(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\u00a0")
	}
	return norm.NFC.String(strings.Trim(strings.Join(lines, "\n"), "\n"))
}
