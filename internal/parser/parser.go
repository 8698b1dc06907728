package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Parser converts raw document bytes into an ordered sequence of text lines
// with font metadata.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// Options tune the collectors that support them.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	return ForFileWithOptions(filename, Options{})
}

// ForFileWithOptions is ForFile with collector options applied.
func ForFileWithOptions(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Nominal font sizes for formats that carry structure but no geometry.
const bodyFontSize = 11.0

var headingFontSizes = [7]float64{bodyFontSize, 24, 18, 15, 13, 12, 11.5}

func headingFontSize(level int) float64 {
	if level < 1 || level >= len(headingFontSizes) {
		return bodyFontSize
	}
	return headingFontSizes[level]
}

// lineBuilder appends lines in reading order.
type lineBuilder struct {
	doc  *doctree.Document
	page int
}

func newLineBuilder(filename string) *lineBuilder {
	return &lineBuilder{doc: &doctree.Document{Filename: filename}}
}

// add appends a line and reports whether it was kept; blank text is dropped.
func (b *lineBuilder) add(text string, size float64, bold bool) bool {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return false
	}
	b.doc.Lines = append(b.doc.Lines, doctree.TextLine{
		Text:       text,
		Page:       b.page,
		FontSize:   size,
		IsBold:     bold,
		OrderIndex: len(b.doc.Lines),
	})
	return true
}

// finish sets the page count and returns the document.
func (b *lineBuilder) finish() *doctree.Document {
	if len(b.doc.Lines) > 0 && b.doc.PageCount < b.page+1 {
		b.doc.PageCount = b.page + 1
	}
	return b.doc
}
