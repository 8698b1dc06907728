package doctree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{H1, "H1"},
		{H2, "H2"},
		{H3, "H3"},
		{Level(0), "Level(0)"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String(): expected %q, got %q", int(tt.level), tt.want, got)
		}
	}
}

func TestLevelFromDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  Level
	}{
		{0, H1},
		{1, H1},
		{2, H2},
		{3, H3},
		{7, H3},
	}
	for _, tt := range tests {
		if got := LevelFromDepth(tt.depth); got != tt.want {
			t.Errorf("depth=%d: expected %s, got %s", tt.depth, tt.want, got)
		}
	}
}

func TestLevel_UnmarshalRejectsUnknown(t *testing.T) {
	var l Level
	if err := json.Unmarshal([]byte(`"H4"`), &l); err == nil {
		t.Error("expected error for H4")
	}
	if err := json.Unmarshal([]byte(`"h2"`), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != H2 {
		t.Errorf("expected H2, got %s", l)
	}
}

func TestOutlineResult_JSONShape(t *testing.T) {
	r := OutlineResult{
		Title: "Annual Report",
		Outline: []Heading{
			{Level: H1, Text: "Introduction", Page: 0},
			{Level: H2, Text: "Background", Page: 1},
		},
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Annual Report","outline":[{"level":"H1","text":"Introduction","page":0},{"level":"H2","text":"Background","page":1}]}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestOutlineResult_NilOutlineEncodesAsArray(t *testing.T) {
	b, err := json.Marshal(OutlineResult{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"title":"","outline":[]}` {
		t.Errorf("expected empty array outline, got %s", b)
	}

	b, err = json.Marshal(Empty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"title":"","outline":[]}` {
		t.Errorf("expected empty result, got %s", b)
	}
}

func TestTree_Nesting(t *testing.T) {
	outline := []Heading{
		{Level: H1, Text: "A", Page: 0},
		{Level: H2, Text: "A.1", Page: 0},
		{Level: H3, Text: "A.1.a", Page: 1},
		{Level: H2, Text: "A.2", Page: 1},
		{Level: H1, Text: "B", Page: 2},
		{Level: H3, Text: "B.x", Page: 2},
	}
	nodes := Tree(outline)

	if len(nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
	}
	a := nodes[0]
	if len(a.Children) != 2 {
		t.Fatalf("expected A to have 2 children, got %d", len(a.Children))
	}
	if len(a.Children[0].Children) != 1 || a.Children[0].Children[0].Text != "A.1.a" {
		t.Errorf("expected A.1 to contain A.1.a, got %+v", a.Children[0].Children)
	}
	b := nodes[1]
	if len(b.Children) != 1 || b.Children[0].Text != "B.x" {
		t.Errorf("expected skipped level to nest under B, got %+v", b.Children)
	}
}

func TestTree_Empty(t *testing.T) {
	if nodes := Tree(nil); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
}

func TestMarkdownTOC(t *testing.T) {
	r := OutlineResult{
		Title: "Guide",
		Outline: []Heading{
			{Level: H1, Text: "Intro", Page: 0},
			{Level: H2, Text: "Scope", Page: 3},
		},
	}
	got := MarkdownTOC(r)
	if !strings.HasPrefix(got, "# Guide\n\n") {
		t.Errorf("expected title header, got %q", got)
	}
	if !strings.Contains(got, "- Intro (p. 0)\n  - Scope (p. 3)\n") {
		t.Errorf("expected indented entries, got %q", got)
	}
}
