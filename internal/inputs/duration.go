package inputs

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/sosodev/duration"
)

// DefaultMaxAge is used when no max-age input is provided.
const DefaultMaxAge = "P1W"

const durationDesignatorsConstant = "YMWDHS"

// ComputeDateCutoff subtracts the ISO-8601 max age from now. Whole years, months,
// weeks and days use calendar arithmetic; the time part is subtracted exactly.
func ComputeDateCutoff(now time.Time, maxAge string) (time.Time, error) {
	if !isCompleteDuration(maxAge) {
		return time.Time{}, ErrIncompleteMaxAge
	}

	parsedDuration, parseError := duration.Parse(maxAge)
	if parseError != nil {
		return time.Time{}, parseError
	}
	if parsedDuration.Negative {
		return time.Time{}, ErrNegativeMaxAge
	}

	if !hasWholeCalendarComponents(parsedDuration) {
		return now.Add(-parsedDuration.ToTimeDuration()), nil
	}

	calendarDays := int(parsedDuration.Weeks)*7 + int(parsedDuration.Days)
	cutoff := now.AddDate(-int(parsedDuration.Years), -int(parsedDuration.Months), -calendarDays)

	timeComponent := time.Duration(parsedDuration.Hours*float64(time.Hour)) +
		time.Duration(parsedDuration.Minutes*float64(time.Minute)) +
		time.Duration(parsedDuration.Seconds*float64(time.Second))

	return cutoff.Add(-timeComponent), nil
}

func hasWholeCalendarComponents(parsedDuration *duration.Duration) bool {
	for _, component := range []float64{parsedDuration.Years, parsedDuration.Months, parsedDuration.Weeks, parsedDuration.Days} {
		if component != math.Trunc(component) {
			return false
		}
	}
	return true
}

// the parser accepts "P" and trailing numbers without a designator
func isCompleteDuration(value string) bool {
	if len(value) == 0 || !strings.ContainsAny(value, durationDesignatorsConstant) {
		return false
	}
	if !strings.ContainsFunc(value, unicode.IsDigit) {
		return false
	}
	lastRune := rune(value[len(value)-1])
	return strings.ContainsRune(durationDesignatorsConstant, lastRune)
}
