// Package blocks picks the element of a parsed page that most likely holds
// song lyrics.
//
// Two strategies exist. Snippet looks for the stable attribute hook the
// search engine puts on its inline lyrics answer and only makes sense on the
// results page itself. Densest scans arbitrary third-party pages for the
// div-free element with the most <br> descendants.
package blocks

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/hyperifyio/lyricsai/internal/render"
)

// DefaultMinChars is the rendered length a density block must exceed.
const DefaultMinChars = 200

var (
	snippetMatcher = cascadia.MustCompile(`div[jsname=WbKHeb]`)
	leafMatcher    = cascadia.MustCompile(`*:not(:has(div))`)
	breakMatcher   = cascadia.MustCompile(`br`)
)

// Block is a view into a parsed document.
type Block struct {
	Node       *html.Node
	BreakCount int
}

// Parse parses raw HTML into a queryable document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Snippet returns the search engine's inline lyrics element, if present.
func Snippet(doc *goquery.Document) (*html.Node, bool) {
	if doc == nil {
		return nil, false
	}
	sel := doc.FindMatcher(snippetMatcher).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.Get(0), true
}

// Densest returns the element without any div descendant that has the most
// <br> descendants. Ties go to the element seen last in document order, so a
// descendant beats an ancestor with the same count. The running maximum
// starts at zero: a page without any <br> still yields its last such element.
func Densest(doc *goquery.Document) (Block, bool) {
	if doc == nil {
		return Block{}, false
	}
	var best Block
	found := false
	max := 0
	doc.FindMatcher(leafMatcher).Each(func(_ int, s *goquery.Selection) {
		n := s.FindMatcher(breakMatcher).Length()
		if n >= max {
			max = n
			best = Block{Node: s.Get(0), BreakCount: n}
			found = true
		}
	})
	return best, found
}

// Selector runs the density strategy and applies the minimum length gate.
type Selector struct {
	// MinChars is the rendered rune count the block must exceed. Zero means DefaultMinChars.
	MinChars int
	// Decoder renders the block. Nil means render.HTMLDecoder.
	Decoder render.Decoder
}

// Select returns the densest block and its rendered text when the text is
// longer than MinChars.
func (s Selector) Select(doc *goquery.Document) (Block, string, bool) {
	b, ok := Densest(doc)
	if !ok {
		return Block{}, "", false
	}
	text := s.Render(b.Node)
	if utf8.RuneCountInString(text) <= s.minChars() {
		return b, text, false
	}
	return b, text, true
}

// Render converts n to plain text with the configured decoder.
func (s Selector) Render(n *html.Node) string {
	if s.Decoder == nil {
		return render.Text(n)
	}
	return s.Decoder.FragmentToText(render.InnerHTML(n))
}

func (s Selector) minChars() int {
	if s.MinChars <= 0 {
		return DefaultMinChars
	}
	return s.MinChars
}
