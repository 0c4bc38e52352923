package fact_extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Calendar and clock normalisation
//
// DATE entities carry ISO-8601 strings instead of float values.  A date whose
// year is absent from the text uses the ISO omitted-year form "--MM-DD".
// TIME entities carry decimal hours on a 24-hour clock (9:30 PM → 21.5).
// ---------------------------------------------------------------------------

// monthNumbers maps the first three letters of an English month name to its
// calendar number.
var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthNumber resolves a month name or abbreviation; 0 means unknown.
func monthNumber(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) < 3 {
		return 0
	}
	return monthNumbers[n[:3]]
}

// validDate checks calendar plausibility.  With a year present the check is
// exact via time.Date normalisation; without one, leap-day ambiguity makes
// only a bounds check possible.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	if year == 0 {
		return day <= 31
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// isoDate renders an ISO-8601 date, using the omitted-year form when year
// is 0.
func isoDate(year, month, day int) string {
	if year == 0 {
		return fmt.Sprintf("--%02d-%02d", month, day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// longDateRe re-parses a full date bound captured as one group,
// e.g. "March 15, 2024".
var longDateRe = regexp.MustCompile(
	`(?i)(` + reMonth + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`,
)

// parseLongDate converts "March 15, 2024" into an ISO date string.
func parseLongDate(text string) (string, bool) {
	m := longDateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month := monthNumber(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month == 0 || !validDate(year, month, day) {
		return "", false
	}
	return isoDate(year, month, day), true
}

// ---------------------------------------------------------------------------
// Clock parsing
// ---------------------------------------------------------------------------

var (
	clockRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?`)
	pmRe    = regexp.MustCompile(`(?i)p\.?m\.?`)
	amRe    = regexp.MustCompile(`(?i)a\.?m\.?`)
)

// parseClock converts a clock token, with or without meridiem, into decimal
// hours on a 24-hour clock.  "5:00 PM" → 17.0, "9:30 pm" → 21.5, "14:30" →
// 14.5, "12 AM" → 0.0.  Returns false for out-of-range components.
func parseClock(text string) (float64, bool) {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	second := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, false
	}

	switch {
	case pmRe.MatchString(text):
		if hour > 12 {
			return 0, false
		}
		if hour < 12 {
			hour += 12
		}
	case amRe.MatchString(text):
		if hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	}

	return float64(hour) + float64(minute)/60 + float64(second)/3600, true
}
