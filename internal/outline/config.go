// Package outline infers a document title and an H1-H3 heading outline
// from font metrics and text patterns of its lines.
package outline

// Config holds every tunable threshold used by the pipeline.
type Config struct {
	// Font profiler.
	BucketSize        float64 // Font sizes are rounded to this step.
	BodyMinSupport    int     // Minimum line count for a body-size bucket.
	BodyMinShare      float64 // Minimum share of lines for a body-size bucket.
	ParagraphMinWords int     // Lines with this many words count as paragraph text.
	MinDistinctSizes  int     // Below this, the profile is treated as uniform.
	UniformMargin     float64 // Uniform profiles: large means > body*(1+margin).
	FontLargeMargin   float64 // Any profile: > body*(1+margin) is large.

	// Classifier.
	MinHeadingRunes       int
	MaxHeadingRunes       int
	MaxHeadingWords       int
	AllCapsMinRunes       int
	AllCapsMaxRunes       int
	ShortCapMinRunes      int
	ShortCapMaxRunes      int
	TitleCaseRatio        float64 // Share of significant words that must be capitalized.
	RunningHeaderMinPages int     // Same text on this many pages is page furniture.
	StopWords             []string

	SignalWeights map[Signal]float64 // Confidence contribution per signal.

	// Title selector.
	TitlePageWindow    int
	TitleMinRunes      int
	TitleMaxRunes      int
	TitleIdealMinRunes int
	TitleIdealMaxRunes int
	TitleMinScore      float64
	TitleMaxMergeLines int
	TitleWeights       TitleWeights
	NonTitleKeywords   []string

	// Assembler and limits.
	MaxOutline int
	MaxPages   int
	MaxLines   int
}

// TitleWeights are the additive terms of the title score.
type TitleWeights struct {
	SizeRank         []float64 // Bonus by rank in ranked sizes; last entry applies to all later ranks.
	Bold             float64
	PageBonus        []float64 // Bonus by page index inside the window.
	EarlyLine        float64   // Bonus for the first EarlyLineCount lines of a page.
	EarlyLineCount   int
	IdealLength      float64
	NumberedPenalty  float64
	LowercasePenalty float64
	KeywordPenalty   float64
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		BucketSize:        0.5,
		BodyMinSupport:    3,
		BodyMinShare:      0.05,
		ParagraphMinWords: 6,
		MinDistinctSizes:  2,
		UniformMargin:     0.08,
		FontLargeMargin:   0.05,

		MinHeadingRunes:       2,
		MaxHeadingRunes:       150,
		MaxHeadingWords:       20,
		AllCapsMinRunes:       3,
		AllCapsMaxRunes:       60,
		ShortCapMinRunes:      3,
		ShortCapMaxRunes:      80,
		TitleCaseRatio:        0.6,
		RunningHeaderMinPages: 3,
		StopWords: []string{
			"the", "this", "that", "these", "those", "however", "therefore",
			"thus", "and", "but", "or", "if", "when", "while", "we", "it",
			"in", "on", "for", "as", "with", "because", "although", "also",
		},
		SignalWeights: DefaultSignalWeights(),

		TitlePageWindow:    3,
		TitleMinRunes:      3,
		TitleMaxRunes:      200,
		TitleIdealMinRunes: 8,
		TitleIdealMaxRunes: 120,
		TitleMinScore:      5,
		TitleMaxMergeLines: 3,
		TitleWeights: TitleWeights{
			SizeRank:         []float64{5, 3, 2, 1},
			Bold:             1,
			PageBonus:        []float64{3, 1.5, 0.5},
			EarlyLine:        1,
			EarlyLineCount:   5,
			IdealLength:      2,
			NumberedPenalty:  8,
			LowercasePenalty: 3,
			KeywordPenalty:   4,
		},
		NonTitleKeywords: []string{
			"page", "copyright", "all rights reserved", "table of contents",
			"confidential", "draft", "www.", "http", "@", "version",
			"printed", "published by", "figure", "doi",
		},

		MaxOutline: 50,
		MaxPages:   500,
		MaxLines:   200000,
	}
}

// withDefaults fills zero fields so a partially populated Config is usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BucketSize <= 0 {
		c.BucketSize = d.BucketSize
	}
	if c.BodyMinSupport <= 0 {
		c.BodyMinSupport = d.BodyMinSupport
	}
	if c.BodyMinShare <= 0 {
		c.BodyMinShare = d.BodyMinShare
	}
	if c.ParagraphMinWords <= 0 {
		c.ParagraphMinWords = d.ParagraphMinWords
	}
	if c.MinDistinctSizes <= 0 {
		c.MinDistinctSizes = d.MinDistinctSizes
	}
	if c.UniformMargin <= 0 {
		c.UniformMargin = d.UniformMargin
	}
	if c.FontLargeMargin <= 0 {
		c.FontLargeMargin = d.FontLargeMargin
	}
	if c.MinHeadingRunes <= 0 {
		c.MinHeadingRunes = d.MinHeadingRunes
	}
	if c.MaxHeadingRunes <= 0 {
		c.MaxHeadingRunes = d.MaxHeadingRunes
	}
	if c.MaxHeadingWords <= 0 {
		c.MaxHeadingWords = d.MaxHeadingWords
	}
	if c.AllCapsMinRunes <= 0 {
		c.AllCapsMinRunes = d.AllCapsMinRunes
	}
	if c.AllCapsMaxRunes <= 0 {
		c.AllCapsMaxRunes = d.AllCapsMaxRunes
	}
	if c.ShortCapMinRunes <= 0 {
		c.ShortCapMinRunes = d.ShortCapMinRunes
	}
	if c.ShortCapMaxRunes <= 0 {
		c.ShortCapMaxRunes = d.ShortCapMaxRunes
	}
	if c.TitleCaseRatio <= 0 {
		c.TitleCaseRatio = d.TitleCaseRatio
	}
	if c.RunningHeaderMinPages <= 0 {
		c.RunningHeaderMinPages = d.RunningHeaderMinPages
	}
	if c.StopWords == nil {
		c.StopWords = d.StopWords
	}
	if c.SignalWeights == nil {
		c.SignalWeights = d.SignalWeights
	}
	if c.TitlePageWindow <= 0 {
		c.TitlePageWindow = d.TitlePageWindow
	}
	if c.TitleMinRunes <= 0 {
		c.TitleMinRunes = d.TitleMinRunes
	}
	if c.TitleMaxRunes <= 0 {
		c.TitleMaxRunes = d.TitleMaxRunes
	}
	if c.TitleIdealMinRunes <= 0 {
		c.TitleIdealMinRunes = d.TitleIdealMinRunes
	}
	if c.TitleIdealMaxRunes <= 0 {
		c.TitleIdealMaxRunes = d.TitleIdealMaxRunes
	}
	if c.TitleMinScore <= 0 {
		c.TitleMinScore = d.TitleMinScore
	}
	if c.TitleMaxMergeLines <= 0 {
		c.TitleMaxMergeLines = d.TitleMaxMergeLines
	}
	if len(c.TitleWeights.SizeRank) == 0 {
		c.TitleWeights = d.TitleWeights
	}
	if c.NonTitleKeywords == nil {
		c.NonTitleKeywords = d.NonTitleKeywords
	}
	if c.MaxOutline <= 0 {
		c.MaxOutline = d.MaxOutline
	}
	if c.MaxPages <= 0 {
		c.MaxPages = d.MaxPages
	}
	if c.MaxLines <= 0 {
		c.MaxLines = d.MaxLines
	}
	return c
}
