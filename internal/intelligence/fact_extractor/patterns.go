package fact_extractor

import (
	"fmt"
	"regexp"
)

// ---------------------------------------------------------------------------
// Priority tiers
//
// Patterns are grouped into five tiers, evaluated widest-context first so a
// narrow pattern can never truncate a wider one:
//
//	1. context ranges    — a range preceded by cue words ("range", "from",
//	                       "between", "budget")
//	2. bare ranges       — two values joined by an operator, no cue words
//	3. complete singles  — a fully-formed date, time, or money literal
//	4. negative scalars  — a value preceded by a negation cue
//	5. bare scalars      — a single number plus unit, matched last
//
// Within a tier, declaration order below is the tie-break between patterns
// contesting the same region.
// ---------------------------------------------------------------------------

const (
	TierContextRange   = 1
	TierBareRange      = 2
	TierCompleteSingle = 3
	TierNegativeScalar = 4
	TierBareScalar     = 5

	tierCount = 5
)

// Shared regex fragments.  Go's regexp package is RE2 (Thompson NFA), so all
// patterns built from these fragments run in linear time; regexp.Compile at
// table build is both the syntax check and the linear-time guarantee.
const (
	// reNum matches a comma-grouped or plain decimal literal.
	reNum = `(?:\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

	// reSign is an optional leading minus glyph (hyphen or U+2212).
	reSign = `(?:[-−]\s?)?`

	// reMonth matches English month names and their abbreviations.
	reMonth = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|` +
		`Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

	// reClock matches hh:mm with optional seconds.
	reClock = `(?:\d{1,2}:\d{2}(?::\d{2})?)`

	// reMeridiem matches AM/PM markers including dotted forms.
	reMeridiem = `(?:[ap]\.?m\.?)`

	// reJoin is the accepted joining-operator set for bare ranges: the dash
	// family (hyphen, minus, en dash, em dash), a slash, and the worded
	// operators "to", "through", "thru".
	reJoin = `(?:\s*[-−–—/]\s*|\s+(?:to|through|thru)\s+)`

	// reJoinNoSlash excludes "/" for categories where it would collide with
	// literal notation (numeric dates).
	reJoinNoSlash = `(?:\s*[-−–—]\s*|\s+(?:to|through|thru)\s+)`

	// reMoneyAmt is a currency-cued amount: symbol, mantissa, optional scale.
	reMoneyAmt = `(?:[$€£]\s?` + reNum + `(?:\s*(?:thousand|million|billion)\b|\s?[KMB]\b)?)`

	// reNegCue lists the worded negative indicators.
	reNegCue = `(?:minus|negative|loss\s+of|decline\s+of|drop\s+of|below|deficit\s+of)`

	// reMeasUnit matches measurement unit tokens.  Symbolic units (°C, °F, %)
	// cannot carry a trailing word boundary; worded units require one so that
	// "ft" does not fire inside "often".
	reMeasUnit = `(?:°[CF]|%|(?:percent|inches|inch|feet|foot|ft|yards?|miles|mile|mph|` +
		`pounds?|lbs?|kilograms?|kg|grams?|kilometers?|km|meters?|cm|mm|` +
		`liters?|litres?|gallons?|hours?|hrs?|minutes?|mins?|seconds?|secs?|` +
		`watts?|volts?|amps?|GHz|MHz|GB|MB|TB)\b)`

	// reTimePoint is either a clock literal with optional meridiem or a bare
	// hour that carries a meridiem.
	reTimePoint = `(?:` + reClock + `\s*` + reMeridiem + `?|\d{1,2}\s*` + reMeridiem + `)`
)

// ---------------------------------------------------------------------------
// PatternDefinition
// ---------------------------------------------------------------------------

// PatternDefinition is one immutable entry in the pattern library.  Capture
// roles are expressed as named groups in the regex; CaptureRoles lists them
// for inspection and for the parser's dispatch.
type PatternDefinition struct {
	Name         string
	Category     Category
	Tier         int
	CaptureRoles []string

	re *regexp.Regexp
}

// Matcher exposes the compiled regex read-only.
func (p *PatternDefinition) Matcher() *regexp.Regexp { return p.re }

// patternSpec is the raw, uncompiled declaration of a pattern.
type patternSpec struct {
	name     string
	category Category
	tier     int
	expr     string
}

// CompileError records a pattern that failed to compile at table build.
// The offending pattern is excluded from the library; all others still load.
type CompileError struct {
	Name string
	Expr string
	Err  error
}

func (e CompileError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Name, e.Err)
}

// ---------------------------------------------------------------------------
// Declaration table
// ---------------------------------------------------------------------------

// defaultPatternSpecs is the single source of truth for every pattern, in
// declaration order.  Slice order within a tier is the conflict tie-break.
var defaultPatternSpecs = []patternSpec{
	// ── Tier 1: context ranges ──────────────────────────────────────────────
	{
		name: "date_context_from_to", category: CategoryDate, tier: TierContextRange,
		expr: `(?i)\b(?:from|between)\s+(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})` +
			`(?:,\s*(?P<y1>\d{4}))?\s+(?:to|and|through|until)\s+` +
			`(?:(?P<m2>` + reMonth + `)\s+)?(?P<d2>\d{1,2})(?:,?\s*(?P<y2>\d{4}))?`,
	},
	{
		name: "date_context_span", category: CategoryDate, tier: TierContextRange,
		expr: `(?i)\b(?:dates?|scheduled(?:\s+for)?|period)\s*:?\s+` +
			`(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})` + reJoinNoSlash +
			`(?P<d2>\d{1,2}),?\s*(?P<y1>\d{4})`,
	},
	{
		name: "time_context_range", category: CategoryTime, tier: TierContextRange,
		expr: `(?i)\b(?:from|between|open(?:\s+from)?|hours\s*:?)\s+` +
			`(?P<s>` + reTimePoint + `)(?:\s+(?:to|and|until|through)\s+|\s*[-−–—]\s*)` +
			`(?P<e>` + reTimePoint + `)`,
	},
	{
		name: "money_context_from_to", category: CategoryMoney, tier: TierContextRange,
		expr: `(?i)\b(?:from|between)\s+(?P<s>` + reSign + reMoneyAmt + `)` +
			`\s+(?:to|and|through)\s+(?P<e>` + reSign + reMoneyAmt + `)`,
	},
	{
		name: "money_context_range", category: CategoryMoney, tier: TierContextRange,
		expr: `(?i)\b(?:\w+\s+)?(?:range|budget(?:\s+allocation)?|price|cost|estimate)s?\b\s*:?\s*(?:of\s+)?` +
			`(?P<s>` + reSign + reMoneyAmt + `)` + reJoin +
			`(?P<e>` + reSign + reMoneyAmt + `)(?:\s+(?P<scale>thousand|million|billion))?`,
	},
	{
		name: "meas_context_from_to", category: CategoryMeasurement, tier: TierContextRange,
		expr: `(?i)\b(?:from|between|ranging\s+from)\s+` +
			`(?P<s>` + reSign + reNum + `)\s*(?P<su>` + reMeasUnit + `)?` +
			`(?:\s+(?:to|and|through)\s+|\s*[-−–—]\s*)` +
			`(?P<e>` + reSign + reNum + `)\s*(?P<eu>` + reMeasUnit + `)`,
	},
	{
		name: "meas_context_range", category: CategoryMeasurement, tier: TierContextRange,
		expr: `(?i)\b(?:\w+\s+)?range\b\s*:?\s*(?:of\s+)?` +
			`(?P<s>` + reSign + reNum + `)\s*(?P<su>` + reMeasUnit + `)?` +
			`(?:\s+(?:to|through|thru)\s+|\s*[-−–—/]\s*)` +
			`(?P<e>` + reSign + reNum + `)\s*(?P<eu>` + reMeasUnit + `)`,
	},

	// ── Tier 2: bare ranges ─────────────────────────────────────────────────
	{
		name: "date_range_full", category: CategoryDate, tier: TierBareRange,
		expr: `(?i)\b(?P<s>` + reMonth + `\s+\d{1,2},?\s+\d{4})` + reJoinNoSlash +
			`(?P<e>` + reMonth + `\s+\d{1,2},?\s+\d{4})`,
	},
	{
		name: "date_range_crossmonth", category: CategoryDate, tier: TierBareRange,
		expr: `(?i)\b(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})` + reJoinNoSlash +
			`(?P<m2>` + reMonth + `)\s+(?P<d2>\d{1,2})(?:,?\s*(?P<y1>\d{4}))?`,
	},
	{
		name: "date_range_dayspan", category: CategoryDate, tier: TierBareRange,
		expr: `(?i)\b(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})` + reJoinNoSlash +
			`(?P<d2>\d{1,2})(?:,?\s*(?P<y1>\d{4}))?\b`,
	},
	{
		name: "time_range_bare", category: CategoryTime, tier: TierBareRange,
		expr: `(?i)(?P<s>` + reTimePoint + `)(?:\s+(?:to|through|thru)\s+|\s*[-−–—/]\s*)` +
			`(?P<e>` + reTimePoint + `)`,
	},
	{
		name: "money_range_bare", category: CategoryMoney, tier: TierBareRange,
		expr: `(?i)(?P<s>` + reSign + reMoneyAmt + `)` + reJoin +
			`(?P<e>` + reSign + `(?:` + reMoneyAmt + `|` + reNum + `))` +
			`(?:\s*(?P<scale>thousand|million|billion|[KMB]\b))?`,
	},
	{
		name: "meas_range_bare", category: CategoryMeasurement, tier: TierBareRange,
		expr: `(?i)(?P<s>` + reSign + reNum + `)\s*(?P<su>` + reMeasUnit + `)?` + reJoin +
			`(?P<e>` + reSign + reNum + `)\s*(?P<eu>` + reMeasUnit + `)`,
	},

	// ── Tier 3: complete single entities ────────────────────────────────────
	{
		name: "date_single_mdy", category: CategoryDate, tier: TierCompleteSingle,
		expr: `(?i)\b(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})(?:st|nd|rd|th)?,?\s+(?P<y1>\d{4})\b`,
	},
	{
		name: "date_single_dmy", category: CategoryDate, tier: TierCompleteSingle,
		expr: `(?i)\b(?P<d1>\d{1,2})(?:st|nd|rd|th)?\s+(?P<m1>` + reMonth + `),?\s+(?P<y1>\d{4})\b`,
	},
	{
		name: "date_single_iso", category: CategoryDate, tier: TierCompleteSingle,
		expr: `\b(?P<y1>\d{4})-(?P<mnum>\d{2})-(?P<dnum>\d{2})\b`,
	},
	{
		name: "date_single_slash", category: CategoryDate, tier: TierCompleteSingle,
		expr: `\b(?P<mnum>\d{1,2})/(?P<dnum>\d{1,2})/(?P<y1>\d{4})\b`,
	},
	{
		name: "time_single", category: CategoryTime, tier: TierCompleteSingle,
		expr: `(?i)\b(?P<v>` + reClock + `)\s*(?P<mer>` + reMeridiem + `)?`,
	},
	// Money literals absorb an optional negation prefix.  RE2 has no
	// lookbehind, so without the prefix the narrower "$500" would be
	// committed here and block the tier-4 match of "minus $500"; the parser
	// applies tier-4 negation semantics when the neg/sgn role captured.
	{
		name: "money_single", category: CategoryMoney, tier: TierCompleteSingle,
		expr: `(?i)(?:\b(?P<neg>` + reNegCue + `)\s+|(?P<sgn>[-−])\s?)?(?P<v>` + reMoneyAmt + `)`,
	},
	{
		name: "money_single_word", category: CategoryMoney, tier: TierCompleteSingle,
		expr: `(?i)\b(?:(?P<neg>` + reNegCue + `)\s+)?(?P<v>` + reNum +
			`(?:\s*(?:thousand|million|billion)\b|\s?[KMB]\b)?\s*(?:dollars?|USD|EUR|GBP|euros?))\b`,
	},

	// ── Tier 4: negative-indicator scalars ──────────────────────────────────
	{
		name: "money_negative_cue", category: CategoryMoney, tier: TierNegativeScalar,
		expr: `(?i)\b(?P<neg>` + reNegCue + `)\s+(?P<v>` + reSign + reMoneyAmt + `)`,
	},
	{
		name: "meas_negative", category: CategoryMeasurement, tier: TierNegativeScalar,
		expr: `(?i)(?:\b(?P<neg>` + reNegCue + `)\s+|(?P<sgn>[-−])\s?)(?P<v>` + reNum +
			`)\s*(?P<u>` + reMeasUnit + `)`,
	},

	// ── Tier 5: bare scalars ────────────────────────────────────────────────
	{
		name: "date_scalar_monthday", category: CategoryDate, tier: TierBareScalar,
		expr: `(?i)\b(?P<m1>` + reMonth + `)\s+(?P<d1>\d{1,2})(?:st|nd|rd|th)?\b`,
	},
	{
		name: "date_scalar_monthyear", category: CategoryDate, tier: TierBareScalar,
		expr: `(?i)\b(?P<m1>` + reMonth + `)\s+(?P<y1>\d{4})\b`,
	},
	{
		name: "time_scalar_meridiem", category: CategoryTime, tier: TierBareScalar,
		expr: `(?i)\b(?P<v>\d{1,2})\s*(?P<mer>` + reMeridiem + `)`,
	},
	{
		name: "time_scalar_word", category: CategoryTime, tier: TierBareScalar,
		expr: `(?i)\b(?P<word>noon|midnight)\b`,
	},
	{
		name: "money_scalar_code", category: CategoryMoney, tier: TierBareScalar,
		expr: `(?i)\b(?:USD|EUR|GBP)\s?(?P<v>` + reNum + `)\b`,
	},
	{
		name: "meas_scalar", category: CategoryMeasurement, tier: TierBareScalar,
		expr: `(?i)(?P<v>` + reNum + `)\s*(?P<u>` + reMeasUnit + `)`,
	},
}

// ---------------------------------------------------------------------------
// Library
// ---------------------------------------------------------------------------

// Library is the immutable, process-wide pattern table.  It is built once at
// startup and shared read-only across all Extract calls; no locking is needed
// because nothing mutates it after construction.
type Library struct {
	tiers [tierCount][]*PatternDefinition
	size  int
}

// NewLibrary compiles the default pattern table.  Each pattern that fails to
// compile is excluded and reported in the returned slice; all others still
// load, so a single malformed pattern cannot take the whole engine down.
// Callers should surface the compile errors at startup.
func NewLibrary() (*Library, []CompileError) {
	return buildLibrary(defaultPatternSpecs)
}

func buildLibrary(specs []patternSpec) (*Library, []CompileError) {
	lib := &Library{}
	var errs []CompileError
	for _, ps := range specs {
		re, err := regexp.Compile(ps.expr)
		if err != nil {
			errs = append(errs, CompileError{Name: ps.name, Expr: ps.expr, Err: err})
			continue
		}
		if ps.tier < 1 || ps.tier > tierCount {
			errs = append(errs, CompileError{
				Name: ps.name, Expr: ps.expr,
				Err: fmt.Errorf("tier %d out of range [1,%d]", ps.tier, tierCount),
			})
			continue
		}
		pd := &PatternDefinition{
			Name:         ps.name,
			Category:     ps.category,
			Tier:         ps.tier,
			CaptureRoles: captureRoles(re),
			re:           re,
		}
		lib.tiers[ps.tier-1] = append(lib.tiers[ps.tier-1], pd)
		lib.size++
	}
	return lib, errs
}

// captureRoles lists the named groups of a compiled pattern.
func captureRoles(re *regexp.Regexp) []string {
	var roles []string
	for _, n := range re.SubexpNames() {
		if n != "" {
			roles = append(roles, n)
		}
	}
	return roles
}

// TierPatterns returns the patterns of one tier in declaration order.
// The returned slice must not be modified.
func (l *Library) TierPatterns(tier int) []*PatternDefinition {
	if tier < 1 || tier > tierCount {
		return nil
	}
	return l.tiers[tier-1]
}

// Size returns the number of successfully compiled patterns.
func (l *Library) Size() int { return l.size }
