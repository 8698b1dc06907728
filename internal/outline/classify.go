package outline

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Signal is a set of heading evidence flags.
type Signal uint16

const (
	SignalFontLarge Signal = 1 << iota
	SignalBold
	SignalNumbered
	SignalRoman
	SignalLettered
	SignalChapterWord
	SignalAllCaps
	SignalEndsColon
	SignalShortCapitalized
)

var signalNames = []struct {
	sig  Signal
	name string
}{
	{SignalFontLarge, "font_large"},
	{SignalBold, "bold"},
	{SignalNumbered, "numbered"},
	{SignalRoman, "roman"},
	{SignalLettered, "lettered"},
	{SignalChapterWord, "chapter_word"},
	{SignalAllCaps, "all_caps"},
	{SignalEndsColon, "ends_colon"},
	{SignalShortCapitalized, "short_capitalized"},
}

const patternSignals = SignalNumbered | SignalRoman | SignalLettered | SignalChapterWord

// Has reports whether every flag in o is set.
func (s Signal) Has(o Signal) bool { return s&o == o }

// Names lists the set flags in declaration order.
func (s Signal) Names() []string {
	names := []string{}
	for _, sn := range signalNames {
		if s.Has(sn.sig) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func familySignal(f Family) Signal {
	switch f {
	case FamilyNumbered:
		return SignalNumbered
	case FamilyRoman:
		return SignalRoman
	case FamilyLettered:
		return SignalLettered
	case FamilyChapterWord:
		return SignalChapterWord
	}
	return 0
}

// DefaultSignalWeights are the confidence contributions per signal.
func DefaultSignalWeights() map[Signal]float64 {
	return map[Signal]float64{
		SignalFontLarge:        0.3,
		SignalBold:             0.2,
		SignalNumbered:         0.5,
		SignalRoman:            0.4,
		SignalLettered:         0.35,
		SignalChapterWord:      0.6,
		SignalAllCaps:          0.15,
		SignalEndsColon:        0.1,
		SignalShortCapitalized: 0.15,
	}
}

// Rejection reasons reported on candidates.
const (
	RejectSignals   = "signals"
	RejectLength    = "length"
	RejectFurniture = "furniture"
)

// HeadingCandidate is the classifier verdict for one line.
type HeadingCandidate struct {
	Line       doctree.TextLine `json:"line"`
	Signals    Signal           `json:"signals"`
	Match      *Match           `json:"match,omitempty"`
	Accepted   bool             `json:"accepted"`
	Confidence float64          `json:"confidence"`
	Rejected   string           `json:"rejected,omitempty"`
}

// Strong reports whether the candidate carries a signal that justifies
// acceptance on its own.
func (c HeadingCandidate) Strong() bool {
	return c.Signals&patternSignals != 0 || c.Signals.Has(SignalFontLarge|SignalBold)
}

// WeakCount counts corroborating typographic cues.
func (c HeadingCandidate) WeakCount() int {
	n := 0
	for _, s := range []Signal{SignalAllCaps, SignalEndsColon, SignalShortCapitalized} {
		if c.Signals.Has(s) {
			n++
		}
	}
	if !c.Signals.Has(SignalFontLarge | SignalBold) {
		if c.Signals.Has(SignalFontLarge) {
			n++
		}
		if c.Signals.Has(SignalBold) {
			n++
		}
	}
	return n
}

// Classifier evaluates heading signals against a document's font profile.
type Classifier struct {
	cfg       Config
	profile   *FontProfile
	matchers  []Matcher
	stop      map[string]bool
	furniture map[string]bool
}

// NewClassifier prepares a classifier for one document. It makes a single
// pass over lines to find running headers and footers.
func NewClassifier(lines []doctree.TextLine, profile *FontProfile, cfg Config) *Classifier {
	cfg = cfg.withDefaults()
	c := &Classifier{
		cfg:       cfg,
		profile:   profile,
		matchers:  DefaultMatchers(),
		stop:      make(map[string]bool, len(cfg.StopWords)),
		furniture: make(map[string]bool),
	}
	for _, w := range cfg.StopWords {
		c.stop[strings.ToLower(w)] = true
	}

	type seen struct {
		pages    int
		lastPage int
		num      int
		offset   int
		sameNum  bool
		tracks   bool
	}
	keys := make(map[string]*seen)
	for _, l := range lines {
		k, num, folded := c.furnitureKey(l.Text)
		if k == "" {
			continue
		}
		s, ok := keys[k]
		if !ok {
			s = &seen{lastPage: -1, num: num, offset: num - l.Page, sameNum: true, tracks: true}
			keys[k] = s
		}
		if folded {
			s.sameNum = s.sameNum && num == s.num
			s.tracks = s.tracks && num-l.Page == s.offset
		}
		if l.Page != s.lastPage {
			s.pages++
			s.lastPage = l.Page
		}
	}
	for k, s := range keys {
		if s.pages >= cfg.RunningHeaderMinPages && (s.sameNum || s.tracks) {
			c.furniture[k] = true
		}
	}
	return c
}

var edgeNumberRe = regexp.MustCompile(`^\d{1,4}\b|\b\d{1,4}$`)

// furnitureKey folds case and whitespace. A number at either end of the line
// is folded too, unless the line opens with a numbering pattern, and returned
// as num. Repeats of a folded key are furniture only while that number stays
// fixed or moves with the page, so "Acme Corp | Page 7" repeats while
// "Step 1" and "Step 2" on unrelated pages stay distinct.
func (c *Classifier) furnitureKey(text string) (key string, num int, folded bool) {
	t := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if t == "" {
		return "", 0, false
	}
	if _, ok := MatchPattern(c.matchers, text); ok {
		return t, 0, false
	}
	loc := edgeNumberRe.FindStringIndex(t)
	if loc == nil {
		return t, 0, false
	}
	num, _ = strconv.Atoi(t[loc[0]:loc[1]])
	return t[:loc[0]] + "#" + t[loc[1]:], num, true
}

var pageNumberRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(page\s+)?\d{1,4}(\s*(of|/)\s*\d{1,4})?$`),
	regexp.MustCompile(`^[-–—]\s*\d{1,4}\s*[-–—]$`),
}

// IsFurniture reports whether text is a page number or a running header or
// footer.
func (c *Classifier) IsFurniture(text string) bool {
	t := strings.TrimSpace(text)
	for _, re := range pageNumberRes {
		if re.MatchString(t) {
			return true
		}
	}
	// Front matter pages are numbered in lower-case roman.
	if t != "" && t == strings.ToLower(t) && canonicalRoman[strings.ToUpper(t)] {
		return true
	}
	k, _, _ := c.furnitureKey(t)
	return c.furniture[k]
}

// Match runs the numbering matchers on text.
func (c *Classifier) Match(text string) (Match, bool) {
	return MatchPattern(c.matchers, text)
}

// Classify evaluates every signal for line and applies the acceptance gate.
func (c *Classifier) Classify(line doctree.TextLine) HeadingCandidate {
	text := strings.TrimSpace(line.Text)
	cand := HeadingCandidate{Line: line}

	body := text
	if m, ok := c.Match(text); ok {
		cand.Match = &m
		cand.Signals |= familySignal(m.Family)
		if m.Rest != "" {
			body = m.Rest
		}
	}
	if c.profile != nil && c.profile.IsLarge(line.FontSize) {
		cand.Signals |= SignalFontLarge
	}
	if line.IsBold {
		cand.Signals |= SignalBold
	}
	if c.isAllCaps(text) {
		cand.Signals |= SignalAllCaps
	}
	if strings.HasSuffix(text, ":") {
		cand.Signals |= SignalEndsColon
	}
	if c.isShortCapitalized(body) {
		cand.Signals |= SignalShortCapitalized
	}

	cand.Confidence = c.confidence(cand.Signals)

	switch {
	case !cand.Strong() && cand.WeakCount() < 2:
		cand.Rejected = RejectSignals
	case !c.lengthOK(text, body):
		cand.Rejected = RejectLength
	case c.IsFurniture(text):
		cand.Rejected = RejectFurniture
	default:
		cand.Accepted = true
	}
	return cand
}

func (c *Classifier) confidence(s Signal) float64 {
	weights := c.cfg.SignalWeights
	sum := 0.0
	for _, sn := range signalNames {
		if s.Has(sn.sig) {
			sum += weights[sn.sig]
		}
	}
	if sum > 1 {
		return 1
	}
	return sum
}

func (c *Classifier) lengthOK(text, body string) bool {
	n := utf8.RuneCountInString(text)
	if n < c.cfg.MinHeadingRunes || n > c.cfg.MaxHeadingRunes {
		return false
	}
	if len(strings.Fields(text)) > c.cfg.MaxHeadingWords {
		return false
	}
	return sentenceBreaks(body) < 2
}

// sentenceBreaks counts terminal punctuation followed by whitespace or the
// end of text.
func sentenceBreaks(text string) int {
	n := 0
	rs := []rune(text)
	for i, r := range rs {
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if i == len(rs)-1 || unicode.IsSpace(rs[i+1]) {
			n++
		}
	}
	return n
}

func (c *Classifier) isAllCaps(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < c.cfg.AllCapsMinRunes || n > c.cfg.AllCapsMaxRunes {
		return false
	}
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// minorWords may stay lower-case in a title-cased line.
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "nor": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"by": true, "with": true, "from": true, "as": true, "vs": true, "via": true,
	"de": true, "du": true, "la": true, "le": true, "et": true, "und": true,
}

func (c *Classifier) isShortCapitalized(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < c.cfg.ShortCapMinRunes || n > c.cfg.ShortCapMaxRunes {
		return false
	}
	if strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "...") {
		return false
	}

	words := strings.Fields(text)
	first := true
	significant, capitalized := 0, 0
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		r, _ := utf8.DecodeRuneInString(w)
		if w == "" || !unicode.IsLetter(r) {
			continue
		}
		lw := strings.ToLower(w)
		if first {
			if !unicode.IsUpper(r) || c.stop[lw] {
				return false
			}
			first = false
		}
		if minorWords[lw] {
			continue
		}
		significant++
		if unicode.IsUpper(r) {
			capitalized++
		}
	}
	if significant == 0 {
		return false
	}
	return float64(capitalized)/float64(significant) >= c.cfg.TitleCaseRatio
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
