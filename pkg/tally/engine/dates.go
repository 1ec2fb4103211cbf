// dates.go - Date phrase substitution
//
// Relative phrases and explicit date literals are rewritten to integer day
// counts before any other pass, which turns date arithmetic into plain
// integer arithmetic. One substituted token means the final result reads as
// a calendar date; two or more with a subtraction means a day-count span.
// "Now" is always the injected context clock, never the system clock.

package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// relativeDate pairs a phrase with its offset from the context clock.
// Order matters: "next week" must be tried before any bare "next", and the
// two-word phrases before their one-word substrings.
var relativeDates = []struct {
	phrase string
	re     *regexp.Regexp
	shift  func(now time.Time) time.Time
}{
	{phrase: "day after tomorrow", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, 2) }},
	{phrase: "day before yesterday", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, -2) }},
	{phrase: "next week", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, 7) }},
	{phrase: "last week", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, -7) }},
	{phrase: "next month", shift: func(n time.Time) time.Time { return n.AddDate(0, 1, 0) }},
	{phrase: "last month", shift: func(n time.Time) time.Time { return n.AddDate(0, -1, 0) }},
	{phrase: "next year", shift: func(n time.Time) time.Time { return n.AddDate(1, 0, 0) }},
	{phrase: "last year", shift: func(n time.Time) time.Time { return n.AddDate(-1, 0, 0) }},
	{phrase: "tomorrow", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, 1) }},
	{phrase: "yesterday", shift: func(n time.Time) time.Time { return n.AddDate(0, 0, -1) }},
	{phrase: "today", shift: func(n time.Time) time.Time { return n }},
	{phrase: "now", shift: func(n time.Time) time.Time { return n }},
}

func init() {
	for i := range relativeDates {
		relativeDates[i].re = regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(relativeDates[i].phrase, " ", `\s+`) + `\b`)
	}
}

// Explicit date literals: ISO dates and month-name dates ("Jan 5, 2026",
// "January 5"). dateparse validates the candidates the regexes find.
var (
	reISODate   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reMonthDate = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)
)

func daysSinceEpoch(t time.Time) int64 {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int64(midnight.Sub(dateEpoch).Hours() / 24)
}

// substituteDates rewrites date phrases and literals to day counts and
// returns the rewritten string plus the number of substitutions made.
func substituteDates(input string, now time.Time) (string, int) {
	count := 0
	out := input

	for _, rd := range relativeDates {
		out = rd.re.ReplaceAllStringFunc(out, func(string) string {
			count++
			return strconv.FormatInt(daysSinceEpoch(rd.shift(now)), 10)
		})
	}

	replaceLiteral := func(match string) string {
		cleaned := strings.TrimSuffix(match, ".")
		cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
		t, err := dateparse.ParseAny(cleaned)
		if err != nil {
			// Month-day with no year: retry with the clock's year appended.
			t, err = dateparse.ParseAny(cleaned + ", " + strconv.Itoa(now.Year()))
			if err != nil {
				return match
			}
		}
		if !yearDigits.MatchString(cleaned) {
			// No explicit year: dateparse assumed one, pin it to the clock's.
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		count++
		return strconv.FormatInt(daysSinceEpoch(t), 10)
	}
	out = reISODate.ReplaceAllStringFunc(out, replaceLiteral)
	out = reMonthDate.ReplaceAllStringFunc(out, replaceLiteral)

	return out, count
}

var (
	ordinalSuffix = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)\b`)
	yearDigits    = regexp.MustCompile(`\d{4}`)
)
