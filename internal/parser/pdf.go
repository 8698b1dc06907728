package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It reads glyphs with their fonts through the
// Go library and falls back to pdftotext, which carries no font data, if
// enabled.
type PDFParser struct {
	FallbackPdftotext bool
	RowTolerance      float64 // Glyphs within this many points of a baseline share a line.
	WordGap           float64 // Horizontal gap, as a share of font size, that becomes a space.
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := p.extractLines(tmpPath, filename)
	if err != nil && p.FallbackPdftotext {
		doc, err = extractPdftotext(tmpPath, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf lines: %w", err)
	}
	return doc, nil
}

func (p *PDFParser) extractLines(path, filename string) (doc *doctree.Document, err error) {
	// The reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := newLineBuilder(filename)
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		b.page = i - 1
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, row := range p.groupRows(page.Content().Text) {
			b.addPDFRow(row, p.wordGap())
		}
	}
	doc = b.finish()
	doc.PageCount = numPages
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("no text layer")
	}
	return doc, nil
}

func (p *PDFParser) rowTolerance() float64 {
	if p.RowTolerance > 0 {
		return p.RowTolerance
	}
	return 2.0
}

func (p *PDFParser) wordGap() float64 {
	if p.WordGap > 0 {
		return p.WordGap
	}
	return 0.25
}

// groupRows clusters glyphs into lines by baseline, top of page first, each
// sorted left to right.
func (p *PDFParser) groupRows(texts []pdflib.Text) [][]pdflib.Text {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	tol := p.rowTolerance()
	var rows [][]pdflib.Text
	var current []pdflib.Text
	rowY := sorted[0].Y
	for _, t := range sorted {
		if len(current) > 0 && rowY-t.Y > tol {
			rows = append(rows, current)
			current = nil
		}
		if len(current) == 0 {
			rowY = t.Y
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// addPDFRow joins a row of glyphs into one line. The line size is the
// largest glyph size; the line is bold when most glyphs use a bold face.
// The box spans the glyphs from the lowest baseline up by the line size.
func (b *lineBuilder) addPDFRow(row []pdflib.Text, wordGap float64) {
	if len(row) == 0 {
		return
	}
	var sb strings.Builder
	size := 0.0
	bold, counted := 0, 0
	prevEnd := 0.0
	minX, maxX, minY := row[0].X, row[0].X+row[0].W, row[0].Y
	for i, t := range row {
		if t.FontSize > size {
			size = t.FontSize
		}
		minX = min(minX, t.X)
		maxX = max(maxX, t.X+t.W)
		minY = min(minY, t.Y)
		if i > 0 && t.X-prevEnd > wordGap*t.FontSize && !strings.HasPrefix(t.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W

		if strings.TrimSpace(t.S) == "" {
			continue
		}
		counted++
		if isBoldFont(t.Font) {
			bold++
		}
	}
	if b.add(sb.String(), size, counted > 0 && bold*2 > counted) {
		b.doc.Lines[len(b.doc.Lines)-1].BBox = &doctree.BBox{X: minX, Y: minY, W: maxX - minX, H: size}
	}
}

var boldFontMarkers = []string{"bold", "black", "heavy", "semibold", "demibold", "demi", "extrabold", "ultrabold"}

// isBoldFont guesses weight from the PostScript font name, e.g.
// "ABCDEF+Helvetica-Bold".
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldFontMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func extractPdftotext(path, filename string) (*doctree.Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	b := newLineBuilder(filename)
	pages := splitPages(string(out))
	for i, page := range pages {
		b.page = i
		for _, l := range strings.Split(page, "\n") {
			b.add(l, 0, false)
		}
	}
	doc := b.finish()
	// pdftotext ends the last page with a form feed.
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	if len(pages) > doc.PageCount {
		doc.PageCount = len(pages)
	}
	return doc, nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
