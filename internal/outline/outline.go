package outline

import (
	"github.com/dgallion1/docoutline/internal/doctree"
)

// Analysis is the full trace of one pipeline run.
type Analysis struct {
	Result     doctree.OutlineResult `json:"result"`
	Profile    *FontProfile          `json:"profile,omitempty"`
	Title      TitleChoice           `json:"title"`
	Candidates []HeadingCandidate    `json:"candidates,omitempty"`
	PageCount  int                   `json:"page_count"`
	Truncated  bool                  `json:"truncated"`
}

// Extract infers the title and outline of one document. It never fails:
// empty input and internal faults both yield an empty result.
func Extract(lines []doctree.TextLine, pageCount int, cfg Config) doctree.OutlineResult {
	return Analyze(lines, pageCount, cfg).Result
}

// Analyze runs the pipeline and keeps the intermediate state for debugging.
func Analyze(lines []doctree.TextLine, pageCount int, cfg Config) (a Analysis) {
	defer func() {
		if r := recover(); r != nil {
			a = Analysis{Result: doctree.Empty(), PageCount: pageCount}
		}
	}()

	cfg = cfg.withDefaults()
	lines, truncated := limitLines(lines, cfg)
	a = Analysis{Result: doctree.Empty(), PageCount: pageCount, Truncated: truncated}
	if len(lines) == 0 {
		return a
	}

	profile := BuildProfile(lines, cfg)
	cls := NewClassifier(lines, profile, cfg)

	cands := make([]HeadingCandidate, len(lines))
	for i, l := range lines {
		cands[i] = cls.Classify(l)
	}

	title := SelectTitle(lines, cands, cls, profile, cfg)
	skip := make(map[int]bool, len(title.Lines))
	for _, i := range title.Lines {
		if cands[i].Match == nil {
			skip[i] = true
		}
	}

	sizes := HeadingSizes(profile, cands, skip)
	headings := make([]LeveledHeading, 0)
	for i, c := range cands {
		if !c.Accepted || skip[i] {
			continue
		}
		headings = append(headings, LeveledHeading{
			Level: AssignLevel(c, profile, sizes),
			Text:  c.Line.Text,
			Match: c.Match,
			Page:  c.Line.Page,
		})
	}

	a.Result = Assemble(title.Text, headings, cfg.MaxOutline)
	a.Profile = profile
	a.Title = title
	a.Candidates = cands
	return a
}

// limitLines drops lines with a negative page, lines past MaxPages and
// everything after MaxLines lines, in input order.
func limitLines(lines []doctree.TextLine, cfg Config) ([]doctree.TextLine, bool) {
	out := lines
	truncated := false
	for i, l := range lines {
		if l.Page >= 0 && l.Page < cfg.MaxPages {
			continue
		}
		// Copy on first drop so the caller's slice is untouched.
		out = make([]doctree.TextLine, i, len(lines))
		copy(out, lines[:i])
		for _, rest := range lines[i:] {
			if rest.Page >= 0 && rest.Page < cfg.MaxPages {
				out = append(out, rest)
			}
		}
		truncated = true
		break
	}
	if len(out) > cfg.MaxLines {
		out = out[:cfg.MaxLines]
		truncated = true
	}
	return out, truncated
}
