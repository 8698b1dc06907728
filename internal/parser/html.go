package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Headings, paragraphs, list items and table
// cells become lines at nominal sizes; <title> leads the document at the
// largest size.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newLineBuilder(filename)
	if title := findTitle(doc); title != "" {
		b.add(title, headingFontSize(1)+4, true)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.add(textContent(n), headingFontSize(level), true)
				return // Don't recurse into heading children (already extracted text).
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "p", "li", "td", "th", "blockquote", "caption", "dt", "dd":
				b.add(textContent(n), bodyFontSize, n.Data == "th" || isStrongOnly(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return b.finish(), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// isStrongOnly reports whether every non-blank text in n sits inside <b> or
// <strong>.
func isStrongOnly(n *html.Node) bool {
	found := false
	var check func(*html.Node, bool) bool
	check = func(n *html.Node, strong bool) bool {
		if n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong") {
			strong = true
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			if !strong {
				return false
			}
			found = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !check(c, strong) {
				return false
			}
		}
		return true
	}
	return check(n, false) && found
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
