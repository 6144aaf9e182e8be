package query

import (
	"strings"
)

// Query identifies a song. Artist is optional.
type Query struct {
	Title  string
	Artist string
}

var separators = []string{" - ", " — ", " – "}

// Phrase returns "<title>" or "<title> <artist>".
func (q Query) Phrase() string {
	title := strings.TrimSpace(q.Title)
	artist := strings.TrimSpace(q.Artist)
	if artist == "" {
		return title
	}
	return title + " " + artist
}

// SearchPhrase is the text sent to the search engine.
func (q Query) SearchPhrase() string {
	return q.Phrase() + " lyrics"
}

// IsZero reports whether the query has no title.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Title) == ""
}

// Parse splits "Title - Artist" on the first dash separator. Input without a
// separator is taken as a bare title.
func Parse(input string) Query {
	s := strings.TrimSpace(input)
	best := -1
	sepLen := 0
	for _, sep := range separators {
		if i := strings.Index(s, sep); i >= 0 && (best < 0 || i < best) {
			best, sepLen = i, len(sep)
		}
	}
	if best < 0 {
		return Query{Title: s}
	}
	return Query{
		Title:  strings.TrimSpace(s[:best]),
		Artist: strings.TrimSpace(s[best+sepLen:]),
	}
}
