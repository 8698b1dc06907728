package outline

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// FontProfile is the per-document font-size baseline. It is built once and
// only read afterwards.
type FontProfile struct {
	BodySize      float64         `json:"body_size"`
	SizeHistogram map[float64]int `json:"-"`
	RankedSizes   []float64       `json:"ranked_sizes"`
	Uniform       bool            `json:"uniform"`

	bucketSize    float64
	uniformMargin float64
	largeMargin   float64
}

// Bucket rounds a font size to the profile's bucket step.
func (p *FontProfile) Bucket(size float64) float64 {
	return bucketOf(size, p.bucketSize)
}

// IsLarge reports whether size counts as larger than body text.
func (p *FontProfile) IsLarge(size float64) bool {
	if p.BodySize <= 0 || size <= 0 {
		return false
	}
	if p.Uniform {
		return size > p.BodySize*(1+p.uniformMargin)
	}
	return p.Bucket(size) > p.BodySize || size > p.BodySize*(1+p.largeMargin)
}

// Rank returns the index of size's bucket in RankedSizes, or -1.
func (p *FontProfile) Rank(size float64) int {
	b := p.Bucket(size)
	for i, s := range p.RankedSizes {
		if s == b {
			return i
		}
	}
	return -1
}

func bucketOf(size, step float64) float64 {
	if step <= 0 {
		return size
	}
	return math.Round(size/step) * step
}

type bucketStat struct {
	size     float64
	count    int
	runes    int
	pages    int
	lastPage int
}

// BuildProfile computes the font histogram and body size for lines.
func BuildProfile(lines []doctree.TextLine, cfg Config) *FontProfile {
	cfg = cfg.withDefaults()
	p := &FontProfile{
		SizeHistogram: make(map[float64]int),
		bucketSize:    cfg.BucketSize,
		uniformMargin: cfg.UniformMargin,
		largeMargin:   cfg.FontLargeMargin,
	}

	all := make(map[float64]*bucketStat)
	para := make(map[float64]*bucketStat)
	paraLines := 0
	pages, lastPage := 0, -1

	for _, l := range lines {
		if l.FontSize <= 0 || strings.TrimSpace(l.Text) == "" {
			continue
		}
		if l.Page != lastPage {
			pages++
			lastPage = l.Page
		}
		b := bucketOf(l.FontSize, cfg.BucketSize)
		p.SizeHistogram[b]++
		addStat(all, b, l)
		if isParagraphLike(l.Text, cfg.ParagraphMinWords) {
			addStat(para, b, l)
			paraLines++
		}
	}

	if len(p.SizeHistogram) == 0 {
		p.Uniform = true
		return p
	}

	n := 0
	for _, c := range p.SizeHistogram {
		n += c
	}
	minPages := min(2, pages)
	body, ok := 0.0, false
	if paraLines > 0 {
		body, ok = pickBody(para, paraLines, minPages, cfg)
	}
	if !ok {
		body, ok = pickBody(all, n, minPages, cfg)
	}
	if !ok {
		body = modalBucket(all).size
	}
	p.BodySize = body

	for size := range p.SizeHistogram {
		if size > p.BodySize {
			p.RankedSizes = append(p.RankedSizes, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(p.RankedSizes)))

	p.Uniform = len(p.SizeHistogram) < cfg.MinDistinctSizes
	return p
}

func addStat(m map[float64]*bucketStat, b float64, l doctree.TextLine) {
	s, ok := m[b]
	if !ok {
		s = &bucketStat{size: b, lastPage: -1}
		m[b] = s
	}
	s.count++
	s.runes += utf8.RuneCountInString(l.Text)
	if l.Page != s.lastPage {
		s.pages++
		s.lastPage = l.Page
	}
}

// pickBody returns the modal bucket among those with enough support: a
// minimum line count and presence on at least minPages pages, so a dense
// cover page cannot claim the body size. ok is false when no bucket
// qualifies.
func pickBody(stats map[float64]*bucketStat, n, minPages int, cfg Config) (float64, bool) {
	support := cfg.BodyMinSupport
	if share := int(math.Ceil(cfg.BodyMinShare * float64(n))); share > support {
		support = share
	}
	for _, s := range orderedBuckets(stats) {
		if s.count >= support && s.pages >= minPages {
			return s.size, true
		}
	}
	return 0, false
}

// orderedBuckets sorts by line count, then by the text carried, then by the
// smaller size.
func orderedBuckets(stats map[float64]*bucketStat) []*bucketStat {
	ordered := make([]*bucketStat, 0, len(stats))
	for _, s := range stats {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.runes != b.runes {
			return a.runes > b.runes
		}
		return a.size < b.size
	})
	return ordered
}

func modalBucket(stats map[float64]*bucketStat) *bucketStat {
	return orderedBuckets(stats)[0]
}

func isParagraphLike(text string, minWords int) bool {
	t := strings.TrimSpace(text)
	if len(strings.Fields(t)) >= minWords {
		return true
	}
	return endsSentence(t) && len(strings.Fields(t)) >= 3
}

func endsSentence(t string) bool {
	if strings.HasSuffix(t, "...") {
		return false
	}
	return strings.HasSuffix(t, ".") || strings.HasSuffix(t, "?") || strings.HasSuffix(t, "!")
}
