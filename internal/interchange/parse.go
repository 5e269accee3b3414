package interchange

// parse.go provides the value parsers that turn free-text spreadsheet cells
// into typed values.
//
// These functions handle the messy reality of user-provided spreadsheet data:
//   - Currency symbols and thousand separators in amounts
//   - Multiple date formats (ISO, US, EU, verbose month names)
//   - Quantities written with separators ("1,000")
//   - Free-text condition descriptions ("brand new", "damaged")
//
// All parsers treat absence and invalid-but-present input the same way: they
// report no value and leave it to the caller to decide whether that is an
// error. Nothing at this layer fails a row.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a plain numeric format after
// cleanup. Matches integers and decimals; scientific notation is rejected
// because no spreadsheet export in the wild writes prices that way on
// purpose.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// dateLayouts is the fixed trial order for date parsing: ISO-8601, US slash,
// EU dash, verbose month name. The order is deliberate and load-bearing:
// slash-delimited input is always read as US (03/04/2024 is March 4th, never
// April 3rd). Locale-aware parsing is an explicit non-goal.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2-1-2006",
	"Jan 2, 2006",
}

// ParseAmount parses a monetary cell value into a decimal amount.
// Strips a leading currency symbol and thousands separators before parsing.
// Returns false for empty or non-numeric input ("N/A", "abc").
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Strip common currency symbols and thousands separators
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€") // Euro
	s = strings.TrimPrefix(s, "£") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDate parses a date cell value, trying each supported layout in the
// fixed order of dateLayouts and returning the first successful parse.
// The returned time is normalized to UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseQuantity parses an integer quantity. Thousands separators are
// stripped; any decimal point rejects the value because quantities are
// integral.
func ParseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.Contains(s, ".") {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Condition is the normalized condition vocabulary for items.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// DefaultCondition is the fallback for condition text that matches nothing
// in the vocabulary. The fallback is deliberately lossy so that unknown
// condition text never blocks an otherwise-valid row.
const DefaultCondition = ConditionGood

// conditionKeywords maps free-text keywords to normalized conditions.
// Checked in order; more specific phrases come before their substrings
// ("like new" before "new").
var conditionKeywords = []struct {
	keyword string
	cond    Condition
}{
	{"like new", ConditionLikeNew},
	{"like-new", ConditionLikeNew},
	{"brand new", ConditionNew},
	{"excellent", ConditionNew},
	{"mint", ConditionNew},
	{"new", ConditionNew},
	{"good", ConditionGood},
	{"fine", ConditionGood},
	{"used", ConditionGood},
	{"fair", ConditionFair},
	{"okay", ConditionFair},
	{"worn", ConditionFair},
	{"poor", ConditionPoor},
	{"damaged", ConditionPoor},
	{"broken", ConditionPoor},
	{"bad", ConditionPoor},
}

// NormalizeCondition maps free text onto the fixed condition vocabulary via
// case-insensitive keyword containment. Unrecognized text returns
// DefaultCondition rather than failing.
func NormalizeCondition(s string) Condition {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCondition
	}

	for _, entry := range conditionKeywords {
		if strings.Contains(s, entry.keyword) {
			return entry.cond
		}
	}
	return DefaultCondition
}

// ValidCondition reports whether s is one of the normalized condition keys.
func ValidCondition(s string) bool {
	switch Condition(s) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}
