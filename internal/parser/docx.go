package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Each paragraph becomes one line; its size
// and weight come from run properties, falling back to the paragraph style.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docoutline-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newLineBuilder(filename)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, size, bold := docxParagraphLine(para)
		b.add(text, size, bold)
	}
	return b.finish(), nil
}

// docxStyleLevel maps Title and HeadingN paragraph styles to a level; Title
// counts as level 1.
func docxStyleLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if n, ok := strings.CutPrefix(style, "heading"); ok {
		if level, err := strconv.Atoi(n); err == nil && level >= 1 && level <= 6 {
			return level
		}
	}
	return 0
}

// docxParagraphLine returns the paragraph text, its largest explicit run
// size in points and whether most of its text is bold.
func docxParagraphLine(para *docx.Paragraph) (string, float64, bool) {
	var buf strings.Builder
	size := 0.0
	boldRunes, totalRunes := 0, 0

	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var runText strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				runText.WriteString(t.Text)
			}
		}
		s := runText.String()
		buf.WriteString(s)

		n := len([]rune(strings.TrimSpace(s)))
		totalRunes += n
		if rp := run.RunProperties; rp != nil {
			if rp.Bold != nil {
				boldRunes += n
			}
			if rp.Size != nil {
				// w:sz is in half-points.
				if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil && half/2 > size {
					size = half / 2
				}
			}
		}
	}

	level := docxStyleLevel(para)
	if size == 0 {
		size = headingFontSize(level)
	}
	bold := level > 0 || (totalRunes > 0 && boldRunes*2 > totalRunes)
	return strings.TrimSpace(buf.String()), size, bold
}
