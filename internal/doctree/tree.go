package doctree

import (
	"strconv"
	"strings"
)

// Node is a heading with its nested subheadings.
type Node struct {
	Level    Level   `json:"level"`
	Text     string  `json:"text"`
	Page     int     `json:"page"`
	Children []*Node `json:"children,omitempty"`
}

// Tree nests a flat outline by level. A heading deeper than its predecessor
// becomes its child; skipped levels are allowed (H1 → H3).
func Tree(outline []Heading) []*Node {
	type stackEntry struct {
		node  *Node
		level Level
	}

	root := &Node{}
	stack := []stackEntry{{node: root, level: 0}}

	for _, h := range outline {
		n := &Node{Level: h.Level, Text: h.Text, Page: h.Page}
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, level: h.Level})
	}

	return root.Children
}

// MarkdownTOC renders the result as a markdown list, indented by level.
func MarkdownTOC(r OutlineResult) string {
	var sb strings.Builder
	if r.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(r.Title)
		sb.WriteString("\n\n")
	}
	for _, h := range r.Outline {
		depth := int(h.Level) - 1
		if depth < 0 {
			depth = 0
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(h.Text)
		sb.WriteString(" (p. ")
		sb.WriteString(strconv.Itoa(h.Page))
		sb.WriteString(")\n")
	}
	return sb.String()
}
