package outline

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/text/unicode/norm"
)

// LeveledHeading is an accepted candidate with its assigned level, before
// text cleanup.
type LeveledHeading struct {
	Level doctree.Level
	Text  string
	Match *Match
	Page  int
}

// Assemble cleans heading text, drops empty entries and consecutive repeats
// of the same heading on the same or the following page, and caps the
// outline length.
func Assemble(title string, headings []LeveledHeading, maxOutline int) doctree.OutlineResult {
	res := doctree.OutlineResult{Title: title, Outline: []doctree.Heading{}}
	// lastPage follows a run of repeats so a header on every page collapses.
	lastPage := -1

	for _, h := range headings {
		if len(res.Outline) >= maxOutline {
			break
		}
		text := headingText(h)
		if text == "" || !h.Level.Valid() || h.Page < 0 {
			continue
		}
		if n := len(res.Outline); n > 0 {
			prev := res.Outline[n-1]
			if prev.Text == text && prev.Level == h.Level && h.Page >= lastPage && h.Page-lastPage <= 1 {
				lastPage = h.Page
				continue
			}
		}
		lastPage = h.Page
		res.Outline = append(res.Outline, doctree.Heading{Level: h.Level, Text: text, Page: h.Page})
	}
	return res
}

func headingText(h LeveledHeading) string {
	text := h.Text
	if h.Match != nil && h.Match.Rest != "" {
		text = h.Match.Rest
	}
	return cleanText(text)
}

// cleanText normalizes to NFC, removes control characters, collapses
// whitespace and trims trailing separators. Closing brackets, quotes and
// ! ? % are kept.
func cleanText(s string) string {
	s = normalizeSpace(s)
	return strings.TrimRightFunc(s, func(r rune) bool {
		switch r {
		case '.', ',', ';', ':', '-', '–', '—', '·', '•', '_':
			return true
		}
		return unicode.IsSpace(r)
	})
}

func normalizeSpace(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r), r == '\uFFFD', r == '\u00AD', r == '\u200B', r == '\uFEFF':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
