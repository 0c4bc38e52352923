package fact_extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Entity Parser
//
// The parser converts one committed span plus its pattern's capture groups
// into a typed Entity.  Dispatch is on the pattern name and tier.  A span
// whose numeric group fails to parse is dropped (no corrupt Entity is ever
// emitted); a unit-extraction failure leaves Unit empty and is not an error.
// Range bounds keep their textual order — a descending range such as
// "-$50,000 to -$25,000" is not reordered by magnitude.
// ---------------------------------------------------------------------------

// scaleSuffixRe detects whether a bound already carries its own scale suffix,
// in which case a range's shared trailing scale must not be applied to it.
var scaleSuffixRe = regexp.MustCompile(`(?i)(?:thousand|million|billion)\b|\d\s?[KMB]\b`)

// parseEntity builds the Entity for one committed span.  The boolean result
// is false when the candidate must be dropped.
func parseEntity(text string, cs committedSpan) (Entity, bool) {
	if cs.end <= cs.start {
		return Entity{}, false
	}

	ent := Entity{
		Category: cs.pattern.Category,
		Span:     Span{Start: cs.start, End: cs.end}, // byte offsets; caller converts
		RawText:  text[cs.start:cs.end],
		Pattern:  cs.pattern.Name,
		Tier:     cs.pattern.Tier,
	}

	var ok bool
	switch cs.pattern.Category {
	case CategoryDate:
		ok = parseDateEntity(&ent, cs)
	case CategoryTime:
		ok = parseTimeEntity(&ent, cs)
	case CategoryMoney:
		ok = parseMoneyEntity(&ent, cs)
	case CategoryMeasurement:
		ok = parseMeasurementEntity(&ent, cs)
	}
	return ent, ok
}

// ---------------------------------------------------------------------------
// DATE
// ---------------------------------------------------------------------------

func parseDateEntity(ent *Entity, cs committedSpan) bool {
	g := cs.groups

	// Full-date bounds captured as whole groups ("March 15, 2024 - April 2, 2024").
	if s, hasS := g["s"]; hasS {
		e := g["e"]
		startISO, ok1 := parseLongDate(s)
		endISO, ok2 := parseLongDate(e)
		if !ok1 || !ok2 {
			return false
		}
		ent.Kind = KindRange
		ent.StartDate = startISO
		ent.EndDate = endISO
		ent.RawStart = s
		ent.RawEnd = e
		return true
	}

	// Numeric forms: ISO "2024-03-15" and slash "3/15/2024".
	if mn, hasNum := g["mnum"]; hasNum {
		month, _ := strconv.Atoi(mn)
		day, _ := strconv.Atoi(g["dnum"])
		year, _ := strconv.Atoi(g["y1"])
		if !validDate(year, month, day) {
			return false
		}
		ent.Kind = KindScalar
		ent.Date = isoDate(year, month, day)
		return true
	}

	month1 := monthNumber(g["m1"])
	if month1 == 0 {
		return false
	}
	year1 := atoiOrZero(g["y1"])
	year2 := atoiOrZero(g["y2"])
	if year1 == 0 {
		year1 = year2
	}
	if year2 == 0 {
		year2 = year1
	}

	// Month + year only ("March 2024").
	if g["d1"] == "" {
		if year1 == 0 {
			return false
		}
		ent.Kind = KindScalar
		ent.Date = isoDate(year1, month1, 1)[:7] // "2024-03"
		return true
	}

	day1 := atoiOrZero(g["d1"])
	if !validDate(year1, month1, day1) {
		return false
	}

	day2, isRange := g["d2"]
	if !isRange {
		ent.Kind = KindScalar
		ent.Date = isoDate(year1, month1, day1)
		return true
	}

	month2 := month1
	if m2 := g["m2"]; m2 != "" {
		month2 = monthNumber(m2)
	}
	d2 := atoiOrZero(day2)
	if month2 == 0 || !validDate(year2, month2, d2) {
		return false
	}

	ent.Kind = KindRange
	ent.StartDate = isoDate(year1, month1, day1)
	ent.EndDate = isoDate(year2, month2, d2)
	ent.RawStart = strings.TrimSpace(g["m1"] + " " + g["d1"])
	ent.RawEnd = strings.TrimSpace(g["m2"] + " " + day2)
	return true
}

// ---------------------------------------------------------------------------
// TIME
// ---------------------------------------------------------------------------

func parseTimeEntity(ent *Entity, cs committedSpan) bool {
	g := cs.groups

	if word, hasWord := g["word"]; hasWord {
		ent.Kind = KindScalar
		if strings.EqualFold(word, "noon") {
			ent.Value = 12
		} else {
			ent.Value = 0
		}
		return true
	}

	if s, hasS := g["s"]; hasS {
		e := g["e"]
		sv, ok1 := parseClock(s)
		evv, ok2 := parseClock(e)
		if !ok1 || !ok2 {
			return false
		}
		ent.Kind = KindRange
		ent.StartValue = sv
		ent.EndValue = evv
		ent.RawStart = s
		ent.RawEnd = e
		return true
	}

	// Single clock value; the meridiem may sit in its own group.
	token := g["v"]
	if mer := g["mer"]; mer != "" {
		token += " " + mer
	}
	v, ok := parseClock(token)
	if !ok {
		return false
	}
	ent.Kind = KindScalar
	ent.Value = v
	return true
}

// ---------------------------------------------------------------------------
// MONEY
// ---------------------------------------------------------------------------

func parseMoneyEntity(ent *Entity, cs committedSpan) bool {
	g := cs.groups
	ent.Unit = canonicalMoneyUnit(ParseUnit(ent.RawText, CategoryMoney))

	if s, hasS := g["s"]; hasS {
		e := g["e"]
		sv, ok1 := ParseNumber(s)
		evv, ok2 := ParseNumber(e)
		if !ok1 || !ok2 {
			return false
		}
		// A trailing scale word applies to every bound that does not carry
		// its own suffix: "$1-5 million" → 1e6 and 5e6.
		if scale := g["scale"]; scale != "" {
			mult := scaleFor(scale)
			if !scaleSuffixRe.MatchString(s) {
				sv *= mult
			}
			if !scaleSuffixRe.MatchString(e) {
				evv *= mult
			}
		}
		ent.Kind = KindRange
		ent.StartValue = sv
		ent.EndValue = evv
		ent.RawStart = s
		ent.RawEnd = e
		return true
	}

	v, ok := ParseNumber(g["v"])
	if !ok {
		return false
	}
	// A negation cue forces the sign negative regardless of the glyph used,
	// normalising "loss of $500", "-$500", and "minus $500" to -500.
	if g["neg"] != "" || g["sgn"] != "" {
		v = -math.Abs(v)
	}
	ent.Kind = KindScalar
	ent.Value = v
	return true
}

// canonicalMoneyUnit collapses worded currency tokens onto their symbol so
// that "$500" and "500 dollars" share a unit.
func canonicalMoneyUnit(unit string) string {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "DOLLAR", "DOLLARS":
		return "$"
	case "EURO", "EUROS":
		return "€"
	default:
		return unit
	}
}

// ---------------------------------------------------------------------------
// MEASUREMENT
// ---------------------------------------------------------------------------

func parseMeasurementEntity(ent *Entity, cs committedSpan) bool {
	g := cs.groups

	if s, hasS := g["s"]; hasS {
		e := g["e"]
		sv, ok1 := ParseNumber(s)
		evv, ok2 := ParseNumber(e)
		if !ok1 || !ok2 {
			return false
		}
		// The unit after the second bound is shared; a distinct unit on the
		// first bound (e.g. "-20°F to 120°F") only confirms it.
		unit := g["eu"]
		if unit == "" {
			unit = g["su"]
		}
		ent.Kind = KindRange
		ent.StartValue = sv
		ent.EndValue = evv
		ent.RawStart = s
		ent.RawEnd = e
		ent.Unit = unit
		return true
	}

	v, ok := ParseNumber(g["v"])
	if !ok {
		return false
	}
	if g["neg"] != "" || g["sgn"] != "" {
		v = -math.Abs(v)
	}
	ent.Kind = KindScalar
	ent.Value = v
	ent.Unit = g["u"]
	return true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
