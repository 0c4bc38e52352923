package fact_extractor

import "sort"

// ---------------------------------------------------------------------------
// Category / Kind enumerations
// ---------------------------------------------------------------------------

// Category classifies the semantic type of an extracted fact.
type Category string

const (
	CategoryDate        Category = "DATE"
	CategoryTime        Category = "TIME"
	CategoryMoney       Category = "MONEY"
	CategoryMeasurement Category = "MEASUREMENT"
)

// Kind distinguishes a single value from a bounded range.
type Kind string

const (
	KindRange  Kind = "RANGE"
	KindScalar Kind = "SCALAR"
)

// ---------------------------------------------------------------------------
// Span
// ---------------------------------------------------------------------------

// Span is a half-open [Start, End) codepoint range in the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of codepoints covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one codepoint.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ---------------------------------------------------------------------------
// Entity
// ---------------------------------------------------------------------------

// Entity is a single typed fact found in text, in the neutral form consumed
// by downstream writers (frontmatter, facts export, API responses).
//
// Scalar entities populate Value; Range entities populate StartValue/EndValue
// together with the raw bound texts.  DATE entities carry ISO-8601 calendar
// fields instead of float values: Date for scalars, StartDate/EndDate for
// ranges.  A date whose year is not present in the text uses the ISO
// omitted-year form "--MM-DD".
type Entity struct {
	Category Category `json:"category"`
	Kind     Kind     `json:"kind"`
	Span     Span     `json:"span"`
	RawText  string   `json:"raw_text"`
	Unit     string   `json:"unit,omitempty"`

	Value      float64 `json:"value,omitempty"`
	StartValue float64 `json:"start_value,omitempty"`
	EndValue   float64 `json:"end_value,omitempty"`
	RawStart   string  `json:"raw_start,omitempty"`
	RawEnd     string  `json:"raw_end,omitempty"`

	Date      string `json:"date,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// Pattern is the name of the pattern definition that produced the match.
	Pattern string `json:"pattern,omitempty"`
	// Tier is the priority tier of that pattern (1 = widest context).
	Tier int `json:"tier,omitempty"`
}

// sortEntities stable-sorts entities by span start ascending.  Committed spans
// never overlap, so equal starts can only occur for identical spans, which the
// allocator already rules out; the stable sort keeps output deterministic
// regardless.
func sortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Span.Start < entities[j].Span.Start
	})
}
