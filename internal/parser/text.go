package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles plain text files. Every non-blank line becomes a line
// at body size; form feeds start a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newLineBuilder(filename)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Split(line, "\f")
		for i, part := range parts {
			if i > 0 {
				b.page++
			}
			b.add(part, bodyFontSize, false)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.finish(), nil
}
