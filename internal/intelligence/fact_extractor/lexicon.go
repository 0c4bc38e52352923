package fact_extractor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Unit/Number Lexicon
//
// The lexicon turns matched numeric tokens into float64 values and pulls the
// unit token out of a matched region.  Both operations are total: ParseNumber
// reports failure through its second return value and ParseUnit returns an
// empty string when no unit is present.  Neither ever panics or errors.
// ---------------------------------------------------------------------------

// minusGlyphs are the sign characters normalised to a canonical minus.  The
// en/em dashes appear as signs in copy-pasted spreadsheet and PDF text.
const minusGlyphs = "-\u2212\u2013\u2014" // - − – —

// numberRe captures an optional sign, an optional currency symbol, a mantissa
// (comma-grouped or plain), and an optional scale suffix.  The scale letters
// K/M/B must end at a word boundary so that unit prefixes such as "kg" or
// "MB" are not mistaken for multipliers.
var numberRe = regexp.MustCompile(
	`(?i)([-−–—])?\s*[$€£]?\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:([KMB])\b|(thousand|million|billion))?`,
)

// scaleFor maps a scale suffix to its multiplier.  Matching is
// case-insensitive; an unknown suffix yields 1.
func scaleFor(suffix string) float64 {
	switch strings.ToLower(suffix) {
	case "k", "thousand":
		return 1e3
	case "m", "million":
		return 1e6
	case "b", "billion":
		return 1e9
	default:
		return 1
	}
}

// ParseNumber converts a numeric token into a float64.  It strips currency
// symbols and digit-group commas, normalises every minus-sign glyph to a
// canonical minus, and multiplies by any trailing scale suffix (K/M/B,
// thousand/million/billion, case-insensitive).  The second return value is
// false when the text contains no digit sequence.
func ParseNumber(text string) (float64, bool) {
	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	mantissa := strings.ReplaceAll(m[2], ",", "")
	v, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		return 0, false
	}

	scaleSuffix := m[3]
	if scaleSuffix == "" {
		scaleSuffix = m[4]
	}
	v *= scaleFor(scaleSuffix)

	if m[1] != "" && strings.ContainsAny(m[1], minusGlyphs) {
		v = -v
	}
	return v, true
}

// ---------------------------------------------------------------------------
// Unit extraction
// ---------------------------------------------------------------------------

// Per-category unit matchers.  Symbolic units (%, °C, °F, currency glyphs)
// cannot carry a trailing word boundary, so they sit outside the word
// alternation.
var (
	moneyUnitRe = regexp.MustCompile(
		`[$€£]|(?i:\b(USD|EUR|GBP|dollars?|euros?|pounds\s+sterling)\b)`,
	)
	measurementUnitRe = regexp.MustCompile(
		`°[CF]|%|(?i:\b(?:percent|inches|inch|feet|foot|ft|yards?|miles|mile|mph|` +
			`pounds?|lbs?|kilograms?|kg|grams?|kilometers?|km|meters?|cm|mm|` +
			`liters?|litres?|gallons?|hours?|hrs?|minutes?|mins?|seconds?|secs?|` +
			`watts?|volts?|amps?|GHz|MHz|GB|MB|TB)\b)`,
	)
	timeUnitRe = regexp.MustCompile(`(?i)\b(AM|PM|hours?|hrs?)\b|[ap]\.m\.`)
)

// ParseUnit returns the first unit token for the given category found inside
// the matched text.  Absence of a unit is not an error: the empty string is
// returned so callers can emit unitless entities.
func ParseUnit(text string, category Category) string {
	var re *regexp.Regexp
	switch category {
	case CategoryMoney:
		re = moneyUnitRe
	case CategoryMeasurement:
		re = measurementUnitRe
	case CategoryTime:
		re = timeUnitRe
	default:
		return ""
	}
	return re.FindString(text)
}

// hasLeadingMinus reports whether the token starts with any minus-sign glyph,
// ignoring leading whitespace.
func hasLeadingMinus(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t)
	return strings.ContainsRune(minusGlyphs, r)
}
