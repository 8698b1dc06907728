package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BBox is a line's position on its page in PDF user space.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// TextLine is one logical line of text produced by a run collector.
// Identity is (Page, OrderIndex).
type TextLine struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	FontSize   float64 `json:"font_size"`
	IsBold     bool    `json:"is_bold"`
	BBox       *BBox   `json:"bbox,omitempty"`
	OrderIndex int     `json:"order_index"`
}

// Document is the collector output: every line in reading order.
type Document struct {
	Filename  string
	Lines     []TextLine
	PageCount int
}

// Level is an outline heading level.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid reports whether l is one of H1, H2, H3.
func (l Level) Valid() bool {
	return l >= H1 && l <= H3
}

// LevelFromDepth clamps a nesting depth (1-based) to H1..H3.
func LevelFromDepth(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth == 2:
		return H2
	default:
		return H3
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode level: %w", err)
	}
	switch strings.ToUpper(s) {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// Heading is one outline entry.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// OutlineResult is the per-document output.
type OutlineResult struct {
	Title   string    `json:"title"`
	Outline []Heading `json:"outline"`
}

// Empty returns the well-formed result used for unreadable or empty input.
func Empty() OutlineResult {
	return OutlineResult{Title: "", Outline: []Heading{}}
}

func (r OutlineResult) MarshalJSON() ([]byte, error) {
	type plain OutlineResult
	out := plain(r)
	if out.Outline == nil {
		out.Outline = []Heading{}
	}
	// Keep <, > and & in heading text verbatim.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
