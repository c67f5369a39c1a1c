package excerpt

// Config holds the selector thresholds, in characters.
// They are tunables taken from observed behaviour, not invariants.
type Config struct {
	// MinBodyLength is the body length a long-form document must exceed to be narrowed.
	MinBodyLength int
	// BackwardScan is how far before the center to look for a section start marker.
	BackwardScan int
	// StartMarkerMaxDistance is the farthest a start marker may sit from the center.
	StartMarkerMaxDistance int
	// LeadIn is how far before the center an unmarked section starts.
	LeadIn int
	// ForwardScan is how far after the center to look for the next marker.
	ForwardScan int
	// EndMarkerMaxDistance is the farthest an end marker may sit from the center.
	EndMarkerMaxDistance int
	// MarkedSectionLength caps a section that has a start marker but no usable end marker.
	MarkedSectionLength int
	// UnmarkedSectionLength caps a section without a start marker.
	UnmarkedSectionLength int
	// MaxExcerptLength is the hard cap on any narrowed excerpt.
	MaxExcerptLength int
	// DefaultPrefixLength is used when nothing in the body scores.
	DefaultPrefixLength int
	WindowSize          int
	WindowStride        int
	// PhraseBonus is added to a highlight containing the whole question.
	PhraseBonus int
	// PageScanRadius bounds the page-number search around the center.
	PageScanRadius int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		MinBodyLength:          10000,
		BackwardScan:           5000,
		StartMarkerMaxDistance: 4000,
		LeadIn:                 1500,
		ForwardScan:            8000,
		EndMarkerMaxDistance:   6000,
		MarkedSectionLength:    5000,
		UnmarkedSectionLength:  3000,
		MaxExcerptLength:       5000,
		DefaultPrefixLength:    3000,
		WindowSize:             1000,
		WindowStride:           500,
		PhraseBonus:            1000,
		PageScanRadius:         3000,
	}
}

// withDefaults fills non-positive fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.MinBodyLength, d.MinBodyLength)
	fill(&c.BackwardScan, d.BackwardScan)
	fill(&c.StartMarkerMaxDistance, d.StartMarkerMaxDistance)
	fill(&c.LeadIn, d.LeadIn)
	fill(&c.ForwardScan, d.ForwardScan)
	fill(&c.EndMarkerMaxDistance, d.EndMarkerMaxDistance)
	fill(&c.MarkedSectionLength, d.MarkedSectionLength)
	fill(&c.UnmarkedSectionLength, d.UnmarkedSectionLength)
	fill(&c.MaxExcerptLength, d.MaxExcerptLength)
	fill(&c.DefaultPrefixLength, d.DefaultPrefixLength)
	fill(&c.WindowSize, d.WindowSize)
	fill(&c.WindowStride, d.WindowStride)
	fill(&c.PhraseBonus, d.PhraseBonus)
	fill(&c.PageScanRadius, d.PageScanRadius)
	return c
}
