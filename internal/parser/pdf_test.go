package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

func glyphs(font string, size, x, y float64, s string) []pdflib.Text {
	var out []pdflib.Text
	w := size * 0.5
	for _, r := range s {
		out = append(out, pdflib.Text{Font: font, FontSize: size, X: x, Y: y, W: w, S: string(r)})
		x += w
	}
	return out
}

func TestPDFParser_GroupRows(t *testing.T) {
	var texts []pdflib.Text
	// Emitted out of order: body first, then the heading above it.
	texts = append(texts, glyphs("Times-Roman", 10, 72, 680, "Body")...)
	texts = append(texts, glyphs("Times-Roman", 10, 100, 680.8, "text")...)
	texts = append(texts, glyphs("Helvetica-Bold", 18, 72, 720, "Overview")...)

	p := &PDFParser{}
	rows := p.groupRows(texts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	b := newLineBuilder("x.pdf")
	for _, row := range rows {
		b.addPDFRow(row, p.wordGap())
	}
	doc := b.finish()

	if doc.Lines[0].Text != "Overview" || doc.Lines[0].FontSize != 18 || !doc.Lines[0].IsBold {
		t.Errorf("expected bold 18pt Overview first, got %+v", doc.Lines[0])
	}
	if doc.Lines[1].Text != "Body text" || doc.Lines[1].IsBold {
		t.Errorf("expected plain 'Body text' second, got %+v", doc.Lines[1])
	}
}

func TestPDFParser_MajorityBold(t *testing.T) {
	row := append(glyphs("Arial-BoldMT", 12, 0, 100, "Heading"), glyphs("ArialMT", 12, 60, 100, "x")...)
	b := newLineBuilder("x.pdf")
	b.addPDFRow(row, 0.25)
	if !b.doc.Lines[0].IsBold {
		t.Errorf("expected majority-bold line to be bold, got %+v", b.doc.Lines[0])
	}
}

func TestPDFParser_RowBBox(t *testing.T) {
	row := append(glyphs("Helvetica-Bold", 18, 72, 720, "Scope"), glyphs("Helvetica-Bold", 18, 130, 719.5, "A")...)
	b := newLineBuilder("x.pdf")
	b.addPDFRow(row, 0.25)
	b.addPDFRow(glyphs("Helvetica", 10, 72, 700, "   "), 0.25)

	if len(b.doc.Lines) != 1 {
		t.Fatalf("expected blank row to be dropped, got %d lines", len(b.doc.Lines))
	}
	box := b.doc.Lines[0].BBox
	if box == nil {
		t.Fatal("expected a bounding box")
	}
	// "Scope" is five 9pt-wide glyphs from x=72; "A" ends at 139.
	want := doctree.BBox{X: 72, Y: 719.5, W: 67, H: 18}
	if *box != want {
		t.Errorf("expected %+v, got %+v", want, *box)
	}
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"ABCDEF+Helvetica-Bold", true},
		{"Arial-BoldMT", true},
		{"MyriadPro-Semibold", true},
		{"Lato-Black", true},
		{"TimesNewRomanPSMT", false},
		{"Helvetica-Oblique", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isBoldFont(tt.font); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.font, tt.want, got)
		}
	}
}

func TestPDFParser_RejectsGarbage(t *testing.T) {
	p := &PDFParser{}
	if _, err := p.Parse(strings.NewReader("not a pdf"), "bad.pdf"); err == nil {
		t.Error("expected error for non-PDF input")
	}
}
