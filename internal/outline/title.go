package outline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TitleChoice is the title selector's decision.
type TitleChoice struct {
	Text     string  `json:"text"`
	Lines    []int   `json:"lines,omitempty"` // Indexes of the lines that form the title.
	Score    float64 `json:"score"`
	Fallback bool    `json:"fallback"`
}

type titleSelector struct {
	cfg     Config
	profile *FontProfile
	cls     *Classifier
}

// SelectTitle scores lines on the first pages and returns the best one,
// merged with the lines that continue it. cands must be aligned with lines.
func SelectTitle(lines []doctree.TextLine, cands []HeadingCandidate, cls *Classifier, profile *FontProfile, cfg Config) TitleChoice {
	s := titleSelector{cfg: cfg.withDefaults(), profile: profile, cls: cls}

	best, bestScore := -1, 0.0
	page, ordinal := -1, 0
	for i, l := range lines {
		if l.Page != page {
			page, ordinal = l.Page, 0
		} else {
			ordinal++
		}
		if l.Page >= s.cfg.TitlePageWindow || !s.eligible(l) {
			continue
		}
		score := s.score(l, ordinal)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if best >= 0 && bestScore >= s.cfg.TitleMinScore {
		idx := s.merge(lines, best)
		parts := make([]string, 0, len(idx))
		for _, i := range idx {
			parts = append(parts, lines[i].Text)
		}
		return TitleChoice{
			Text:  cleanText(strings.Join(parts, " ")),
			Lines: idx,
			Score: bestScore,
		}
	}

	return s.fallback(lines, cands)
}

func (s titleSelector) eligible(l doctree.TextLine) bool {
	text := strings.TrimSpace(l.Text)
	n := utf8.RuneCountInString(text)
	if n < s.cfg.TitleMinRunes || n > s.cfg.TitleMaxRunes {
		return false
	}
	if !l.IsBold && (s.profile == nil || s.profile.Rank(l.FontSize) < 0) {
		return false
	}
	return !s.cls.IsFurniture(text)
}

func (s titleSelector) score(l doctree.TextLine, ordinal int) float64 {
	w := s.cfg.TitleWeights
	text := strings.TrimSpace(l.Text)
	score := 0.0

	if rank := s.profile.Rank(l.FontSize); rank >= 0 && len(w.SizeRank) > 0 {
		score += w.SizeRank[min(rank, len(w.SizeRank)-1)]
	}
	if l.Page < len(w.PageBonus) {
		score += w.PageBonus[l.Page]
	}
	if ordinal < w.EarlyLineCount {
		score += w.EarlyLine
	}
	if n := utf8.RuneCountInString(text); n >= s.cfg.TitleIdealMinRunes && n <= s.cfg.TitleIdealMaxRunes {
		score += w.IdealLength
	}
	if l.IsBold {
		score += w.Bold
	}
	if _, ok := s.cls.Match(text); ok {
		score -= w.NumberedPenalty
	}
	if isAllLower(text) {
		score -= w.LowercasePenalty
	}
	if containsKeyword(text, s.cfg.NonTitleKeywords) {
		score -= w.KeywordPenalty
	}
	return score
}

// merge extends the winning line with directly following lines that share
// its size bucket, weight and page.
func (s titleSelector) merge(lines []doctree.TextLine, best int) []int {
	first := lines[best]
	idx := []int{best}
	total := utf8.RuneCountInString(strings.TrimSpace(first.Text))
	for i := best + 1; i < len(lines) && len(idx) < s.cfg.TitleMaxMergeLines; i++ {
		l := lines[i]
		text := strings.TrimSpace(l.Text)
		if l.Page != first.Page || l.IsBold != first.IsBold ||
			s.profile.Bucket(l.FontSize) != s.profile.Bucket(first.FontSize) {
			break
		}
		total += 1 + utf8.RuneCountInString(text)
		if text == "" || total > s.cfg.TitleMaxRunes || s.cls.IsFurniture(text) {
			break
		}
		if _, ok := s.cls.Match(text); ok {
			break
		}
		idx = append(idx, i)
	}
	return idx
}

// fallback picks the first short capitalized line in the document, then the
// first line at the largest size above body. Numbered lines never qualify.
func (s titleSelector) fallback(lines []doctree.TextLine, cands []HeadingCandidate) TitleChoice {
	usable := func(i int) bool {
		text := strings.TrimSpace(lines[i].Text)
		if text == "" || s.cls.IsFurniture(text) {
			return false
		}
		_, numbered := s.cls.Match(text)
		return !numbered
	}

	for i := range lines {
		if i < len(cands) && cands[i].Signals.Has(SignalShortCapitalized) && usable(i) {
			return TitleChoice{Text: cleanText(lines[i].Text), Fallback: true}
		}
	}
	if s.profile != nil && len(s.profile.RankedSizes) > 0 {
		top := s.profile.RankedSizes[0]
		for i, l := range lines {
			if s.profile.Bucket(l.FontSize) == top && usable(i) {
				return TitleChoice{Text: cleanText(l.Text), Fallback: true}
			}
		}
	}
	return TitleChoice{Fallback: true}
}

func isAllLower(text string) bool {
	letters := false
	for _, r := range text {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters = true
		}
	}
	return letters
}

// containsKeyword matches alphabetic keywords on word boundaries and any
// other keyword as a substring.
func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	words := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if !isAlphaWords(kw) {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		kwWords := strings.Fields(kw)
		for i := 0; i+len(kwWords) <= len(words); i++ {
			if equalWords(words[i:i+len(kwWords)], kwWords) {
				return true
			}
		}
	}
	return false
}

func isAlphaWords(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return s != ""
}

func equalWords(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
