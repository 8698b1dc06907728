package outline

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// HeadingSizes returns the ranked sizes actually used by accepted headings,
// largest first. Sizes only carried by skipped candidates (the title) do not
// take a rank.
func HeadingSizes(profile *FontProfile, cands []HeadingCandidate, skip map[int]bool) []float64 {
	used := make(map[float64]bool)
	for i, c := range cands {
		if !c.Accepted || skip[i] {
			continue
		}
		if profile.Rank(c.Line.FontSize) >= 0 {
			used[profile.Bucket(c.Line.FontSize)] = true
		}
	}
	sizes := make([]float64, 0, len(used))
	for s := range used {
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}

// AssignLevel maps an accepted candidate to H1..H3. Explicit numbering wins
// over chapter words, which win over font size.
func AssignLevel(c HeadingCandidate, profile *FontProfile, headingSizes []float64) doctree.Level {
	if m := c.Match; m != nil {
		switch m.Family {
		case FamilyNumbered:
			return doctree.LevelFromDepth(m.Depth)
		case FamilyChapterWord:
			if m.Word == "Section" {
				if m.Depth > 1 {
					return doctree.LevelFromDepth(m.Depth)
				}
				return doctree.H2
			}
			return doctree.H1
		}
	}

	if profile != nil && profile.Rank(c.Line.FontSize) >= 0 {
		b := profile.Bucket(c.Line.FontSize)
		for i, s := range headingSizes {
			if s == b {
				return doctree.LevelFromDepth(i + 1)
			}
		}
	}

	if c.Signals&(SignalRoman|SignalLettered) != 0 {
		return doctree.H1
	}
	return doctree.H2
}
