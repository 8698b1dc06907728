package outline

import (
	"regexp"
	"strings"
	"unicode"
)

// Family names a numbering pattern family.
type Family string

const (
	FamilyChapterWord Family = "chapter_word"
	FamilyNumbered    Family = "numbered"
	FamilyRoman       Family = "roman"
	FamilyLettered    Family = "lettered"
)

// Match is the structured result of a numbering matcher.
type Match struct {
	Family Family `json:"family"`
	Prefix string `json:"prefix"`         // Consumed prefix, e.g. "2.3.1" or "Chapter 4:".
	Depth  int    `json:"depth"`          // Number of dotted groups; 1 for non-decimal families.
	Word   string `json:"word,omitempty"` // Chapter, Part, Appendix or Section.
	Rest   string `json:"rest"`           // Text after the prefix.
}

// Matcher recognizes one numbering family at the start of a line.
type Matcher interface {
	Family() Family
	Match(text string) (Match, bool)
}

// DefaultMatchers returns the matchers in evaluation order. The first match
// wins.
func DefaultMatchers() []Matcher {
	return []Matcher{
		chapterWordMatcher{},
		numberedMatcher{},
		romanMatcher{},
		letteredMatcher{},
	}
}

// MatchPattern runs matchers in order against the leading-whitespace-trimmed
// text.
func MatchPattern(matchers []Matcher, text string) (Match, bool) {
	t := strings.TrimLeftFunc(text, unicode.IsSpace)
	for _, m := range matchers {
		if mt, ok := m.Match(t); ok {
			return mt, true
		}
	}
	return Match{}, false
}

var chapterWordRe = regexp.MustCompile(`(?i)^(chapter|part|appendix|section)\s+(\d{1,3}(?:\.\d{1,3})*|[ivxlc]+|[a-z])\b\s*([:.\-–—])?\s*(.*)$`)

type chapterWordMatcher struct{}

func (chapterWordMatcher) Family() Family { return FamilyChapterWord }

func (chapterWordMatcher) Match(text string) (Match, bool) {
	idx := chapterWordRe.FindStringSubmatchIndex(text)
	if idx == nil {
		return Match{}, false
	}
	word, token := text[idx[2]:idx[3]], text[idx[4]:idx[5]]
	hasSep := idx[6] >= 0
	rest := strings.TrimSpace(text[idx[8]:idx[9]])
	// "Chapter 4 introduces ..." is prose, not a heading.
	if !hasSep && startsLower(rest) {
		return Match{}, false
	}
	depth := 1
	if isDigits(token[:1]) {
		depth = strings.Count(token, ".") + 1
	}
	return Match{
		Family: FamilyChapterWord,
		Prefix: strings.TrimSpace(text[:idx[8]]),
		Depth:  depth,
		Word:   strings.ToUpper(word[:1]) + strings.ToLower(word[1:]),
		Rest:   rest,
	}, true
}

var numberedRe = regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3})*)[.):]?\s+(\p{Lu}.*)$`)

type numberedMatcher struct{}

func (numberedMatcher) Family() Family { return FamilyNumbered }

func (numberedMatcher) Match(text string) (Match, bool) {
	idx := numberedRe.FindStringSubmatchIndex(text)
	if idx == nil {
		return Match{}, false
	}
	return Match{
		Family: FamilyNumbered,
		Prefix: strings.TrimSpace(text[:idx[4]]),
		Depth:  strings.Count(text[idx[2]:idx[3]], ".") + 1,
		Rest:   strings.TrimSpace(text[idx[4]:idx[5]]),
	}, true
}

var romanRe = regexp.MustCompile(`^([IVXL]+)[.)](?:\s+(.*))?$`)

// canonicalRoman holds I..XXXIX.
var canonicalRoman = func() map[string]bool {
	ones := []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}
	tens := []string{"", "X", "XX", "XXX"}
	set := make(map[string]bool, 39)
	for _, t := range tens {
		for _, o := range ones {
			if t+o != "" {
				set[t+o] = true
			}
		}
	}
	return set
}()

type romanMatcher struct{}

func (romanMatcher) Family() Family { return FamilyRoman }

func (romanMatcher) Match(text string) (Match, bool) {
	m := romanRe.FindStringSubmatch(text)
	if m == nil || !canonicalRoman[m[1]] {
		return Match{}, false
	}
	return Match{
		Family: FamilyRoman,
		Prefix: text[:len(m[1])+1],
		Depth:  1,
		Rest:   strings.TrimSpace(m[2]),
	}, true
}

var letteredRe = regexp.MustCompile(`^([A-Z])[.)](?:\s+(.*))?$`)

type letteredMatcher struct{}

func (letteredMatcher) Family() Family { return FamilyLettered }

func (letteredMatcher) Match(text string) (Match, bool) {
	m := letteredRe.FindStringSubmatch(text)
	if m == nil {
		return Match{}, false
	}
	return Match{
		Family: FamilyLettered,
		Prefix: text[:2],
		Depth:  1,
		Rest:   strings.TrimSpace(m[2]),
	}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
