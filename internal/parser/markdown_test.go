package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingSizes(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Filename != "doc.md" {
		t.Errorf("expected filename %q, got %q", "doc.md", doc.Filename)
	}
	if doc.PageCount != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount)
	}

	want := []struct {
		text string
		size float64
		bold bool
	}{
		{"Title", 24, true},
		{"Intro text.", bodyFontSize, false},
		{"Section A", 18, true},
		{"Section A content.", bodyFontSize, false},
		{"Subsection A1", 15, true},
		{"Subsection A1 content.", bodyFontSize, false},
		{"Section B", 18, true},
		{"Section B content.", bodyFontSize, false},
	}
	if len(doc.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(doc.Lines), doc.Lines)
	}
	for i, w := range want {
		l := doc.Lines[i]
		if l.Text != w.text || l.FontSize != w.size || l.IsBold != w.bold {
			t.Errorf("line %d: expected %q %v bold=%v, got %q %v bold=%v",
				i, w.text, w.size, w.bold, l.Text, l.FontSize, l.IsBold)
		}
		if l.OrderIndex != i || l.Page != 0 {
			t.Errorf("line %d: expected order %d page 0, got order %d page %d", i, i, l.OrderIndex, l.Page)
		}
	}
}

func TestMarkdownParser_StrongParagraphIsBold(t *testing.T) {
	input := "**Key Findings**\n\nSome *mixed* and **bold** prose.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "bold.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Text != "Key Findings" || !doc.Lines[0].IsBold {
		t.Errorf("expected bold Key Findings, got %+v", doc.Lines[0])
	}
	if doc.Lines[1].IsBold {
		t.Errorf("expected mixed paragraph not bold, got %+v", doc.Lines[1])
	}
	if doc.Lines[1].Text != "Some mixed and bold prose." {
		t.Errorf("expected inline text flattened, got %q", doc.Lines[1].Text)
	}
}

func TestMarkdownParser_SkipsCodeBlocks(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\n- List users\n- Create user\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var texts []string
	for _, l := range doc.Lines {
		texts = append(texts, l.Text)
	}
	joined := strings.Join(texts, "|")
	if strings.Contains(joined, "GET /api/users") {
		t.Errorf("expected code block skipped, got %q", joined)
	}
	want := "API Reference|Some intro.|Endpoints|List users|Create user|More text after code."
	if joined != want {
		t.Errorf("expected %q, got %q", want, joined)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Errorf("expected 0 lines for empty input, got %d", len(doc.Lines))
	}
	if doc.PageCount != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", doc.PageCount)
	}
}
