package outline

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func selectTitle(lines []doctree.TextLine) TitleChoice {
	cfg := DefaultConfig()
	profile := BuildProfile(lines, cfg)
	c := NewClassifier(lines, profile, cfg)
	cands := make([]HeadingCandidate, len(lines))
	for i, l := range lines {
		cands[i] = c.Classify(l)
	}
	return SelectTitle(lines, cands, c, profile, cfg)
}

func TestSelectTitle_LargestEarlyLine(t *testing.T) {
	lines := doc(
		line(0, 24, false, "Quarterly Operations Review"),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
		line(1, 16, true, "Introduction"),
		line(1, 12, false, bodySentence),
		line(1, 12, false, bodySentence),
	)
	got := selectTitle(lines)
	if got.Text != "Quarterly Operations Review" {
		t.Errorf("expected %q, got %q", "Quarterly Operations Review", got.Text)
	}
	if got.Fallback {
		t.Error("expected a scored title")
	}
	if len(got.Lines) != 1 || got.Lines[0] != 0 {
		t.Errorf("expected title line [0], got %v", got.Lines)
	}
}

func TestSelectTitle_MergesContinuationLines(t *testing.T) {
	lines := doc(
		line(0, 24, false, "Understanding Heuristic"),
		line(0, 24, false, "Document Outlines"),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
	)
	got := selectTitle(lines)
	if got.Text != "Understanding Heuristic Document Outlines" {
		t.Errorf("expected merged title, got %q", got.Text)
	}
	if len(got.Lines) != 2 {
		t.Errorf("expected 2 title lines, got %v", got.Lines)
	}
}

func TestSelectTitle_KeywordPenalty(t *testing.T) {
	lines := doc(
		line(0, 24, false, "Confidential Draft"),
		line(0, 20, false, "Market Study"),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
	)
	if got := selectTitle(lines); got.Text != "Market Study" {
		t.Errorf("expected %q, got %q", "Market Study", got.Text)
	}
}

func TestSelectTitle_IgnoresLaterPages(t *testing.T) {
	lines := doc(
		line(0, 12, false, bodySentence),
		line(1, 12, false, bodySentence),
		line(2, 12, false, bodySentence),
		line(3, 30, true, "Late Big Banner"),
		line(3, 12, false, bodySentence),
	)
	got := selectTitle(lines)
	if !got.Fallback {
		t.Error("expected fallback when nothing scores on the first pages")
	}
	if got.Text != "Late Big Banner" {
		t.Errorf("expected fallback to the short capitalized line, got %q", got.Text)
	}
}

func TestSelectTitle_NoCandidate(t *testing.T) {
	lines := doc(
		line(0, 11, false, "the data were collected over several weeks."),
		line(0, 11, false, "results are summarised in the following text."),
	)
	got := selectTitle(lines)
	if got.Text != "" {
		t.Errorf("expected empty title, got %q", got.Text)
	}
}

func TestSelectTitle_NumberedLineIsNotTitle(t *testing.T) {
	lines := doc(
		line(0, 18, true, "1. Introduction"),
		line(0, 12, false, "This is body text."),
	)
	if got := selectTitle(lines); got.Text != "" {
		t.Errorf("expected empty title, got %q", got.Text)
	}
}

func TestSelectTitle_Deterministic(t *testing.T) {
	lines := doc(
		line(0, 20, false, "Alpha Heading"),
		line(0, 12, false, bodySentence),
		line(0, 20, false, "Beta Heading"),
		line(0, 12, false, bodySentence),
		line(0, 12, false, bodySentence),
	)
	first := selectTitle(lines)
	for i := 0; i < 5; i++ {
		if got := selectTitle(lines); got.Text != first.Text {
			t.Fatalf("run %d: expected %q, got %q", i, first.Text, got.Text)
		}
	}
	if first.Text != "Alpha Heading" {
		t.Errorf("expected tie to go to the earliest line, got %q", first.Text)
	}
}

func TestContainsKeyword(t *testing.T) {
	kws := DefaultConfig().NonTitleKeywords
	tests := []struct {
		text string
		want bool
	}{
		{"Homepage Design Guide", false},
		{"Page 3 of 9", true},
		{"Visit www.example.com", true},
		{"All Rights Reserved", true},
		{"Annual Report", false},
	}
	for _, tt := range tests {
		if got := containsKeyword(tt.text, kws); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, got)
		}
	}
}
