package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is the result of running the temporal rules over a message.
// Date is only meaningful when HasDate is true and is always an absolute
// calendar date; relative terms never survive extraction. Time is a
// canonical string ("9:00 AM" or "14:30") or empty when nothing matched.
type DateTime struct {
	Date    time.Time
	HasDate bool
	Time    string
}

// Extractor resolves free-text dates and times against a wall clock.
// Year-bearing dates outside [YearMin, YearMax] are rejected silently so a
// mistyped year never becomes an appointment date.
type Extractor struct {
	YearMin int
	YearMax int
	Now     func() time.Time
}

// NewExtractor returns an extractor with the default acceptable year window.
func NewExtractor() *Extractor {
	return &Extractor{
		YearMin: 2024,
		YearMax: 2030,
		Now:     time.Now,
	}
}

// Extract runs the date and time rule tables over text using the current
// wall-clock date for relative terms.
func (e *Extractor) Extract(text string) DateTime {
	return e.ExtractAt(text, e.Now())
}

// ExtractAt is Extract with an explicit reference time. Pure: identical
// (text, now) inputs always yield identical results.
func (e *Extractor) ExtractAt(text string, now time.Time) DateTime {
	lower := strings.ToLower(text)
	var out DateTime

	for _, rule := range dateRules {
		m := rule.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if date, ok := rule.resolve(e, m, now); ok {
			out.Date = date
			out.HasDate = true
		}
		// First matching rule wins even if it resolved to nothing
		// (e.g. a clamped-out year); later, less specific rules must
		// not reinterpret the same tokens.
		break
	}

	for _, rule := range timeRules {
		m := rule.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if t, ok := rule.resolve(m); ok {
			out.Time = t
		}
		break
	}

	return out
}

type dateRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(e *Extractor, m []string, now time.Time) (time.Time, bool)
}

type timeRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string) (string, bool)
}

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	// Urdu weekday names.
	"پیر":    time.Monday,
	"منگل":   time.Tuesday,
	"بدھ":    time.Wednesday,
	"جمعرات": time.Thursday,
	"جمعہ":   time.Friday,
	"ہفتہ":   time.Saturday,
	"اتوار":  time.Sunday,
}

// dateRules is ordered most specific first: year-bearing absolute formats,
// then month-name formats, then relative terms, then bare weekday names.
// The ordering is the tie-break: a bare weekday must never shadow a fully
// qualified date elsewhere in the same message.
var dateRules = []dateRule{
	{
		name: "iso",
		re:   regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			return e.buildDate(m[1], m[2], m[3], now)
		},
	},
	{
		name: "us-slash",
		re:   regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			return e.buildDate(m[3], m[1], m[2], now)
		},
	},
	{
		name: "month-name",
		re:   regexp.MustCompile(`\b(` + monthAlt + `)\s+(\d{1,2}),?\s+(\d{4})\b`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			month, ok := months[m[1][:3]]
			if !ok {
				return time.Time{}, false
			}
			return e.buildDate(m[3], strconv.Itoa(int(month)), m[2], now)
		},
	},
	{
		name: "compact-day-month",
		re:   regexp.MustCompile(`\b(\d{1,2})(` + monthAlt + `)\s+(\d{4})\b`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			month, ok := months[m[2][:3]]
			if !ok {
				return time.Time{}, false
			}
			return e.buildDate(m[3], strconv.Itoa(int(month)), m[1], now)
		},
	},
	{
		name: "relative",
		re:   regexp.MustCompile(`(tomorrow|today|next week|کل|آج|اگلے ہفتے)`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			day := midnight(now)
			switch m[1] {
			case "today", "آج":
				return day, true
			case "tomorrow", "کل":
				return day.AddDate(0, 0, 1), true
			case "next week", "اگلے ہفتے":
				return day.AddDate(0, 0, 7), true
			}
			return time.Time{}, false
		},
	},
	{
		name: "weekday",
		re:   regexp.MustCompile(`(monday|tuesday|wednesday|thursday|friday|saturday|sunday|پیر|منگل|بدھ|جمعرات|جمعہ|ہفتہ|اتوار)`),
		resolve: func(e *Extractor, m []string, now time.Time) (time.Time, bool) {
			target, ok := weekdays[m[1]]
			if !ok {
				return time.Time{}, false
			}
			return nextWeekday(now, target), true
		},
	},
}

// timeRules is ordered so meridiem-qualified clocks win over the bare
// 24-hour form, and localized markers come after the numeric formats.
var timeRules = []timeRule{
	{
		name: "clock-meridiem",
		re:   regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)\b`),
		resolve: func(m []string) (string, bool) {
			return canonical12(m[1], m[2], m[3])
		},
	},
	{
		name: "clock-24h",
		re:   regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
		resolve: func(m []string) (string, bool) {
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			if hour > 23 || minute > 59 {
				return "", false
			}
			return fmt.Sprintf("%02d:%02d", hour, minute), true
		},
	},
	{
		name: "bare-hour-meridiem",
		re:   regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`),
		resolve: func(m []string) (string, bool) {
			return canonical12(m[1], "00", m[2])
		},
	},
	{
		name: "baje",
		re:   regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(?:baje?\b|بجے)`),
		resolve: func(m []string) (string, bool) {
			hour, _ := strconv.Atoi(m[1])
			if hour > 23 {
				return "", false
			}
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			if minute > 59 {
				return "", false
			}
			return fmt.Sprintf("%02d:%02d", hour, minute), true
		},
	},
	{
		name: "urdu-period",
		re:   regexp.MustCompile(`(صبح|دوپہر|شام|رات)\s*(\d{1,2})`),
		resolve: func(m []string) (string, bool) {
			meridiem := "pm"
			if m[1] == "صبح" {
				meridiem = "am"
			}
			return canonical12(m[2], "00", meridiem)
		},
	},
}

// buildDate assembles a date from numeric components, applying the year
// clamp. Extraction fails silently when the year is outside the window or
// the components do not form a real calendar date.
func (e *Extractor) buildDate(year, month, day string, now time.Time) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if y < e.YearMin || y > e.YearMax {
		return time.Time{}, false
	}
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	date := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, now.Location())
	if date.Day() != d || date.Month() != time.Month(mo) {
		// Normalization moved the date, so the input was not real
		// (e.g. Feb 30).
		return time.Time{}, false
	}
	return date, true
}

// nextWeekday returns the next occurrence of target strictly after now.
// "Monday" said on a Monday means the Monday seven days out.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	days := (int(target) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight(now).AddDate(0, 0, days)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func canonical12(hourStr, minuteStr, meridiem string) (string, bool) {
	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minuteStr)
	if hour < 1 || hour > 12 || minute > 59 {
		return "", false
	}
	t := TimeOfDay{Hour: hour, Minute: minute}
	if meridiem == "pm" && hour != 12 {
		t.Hour += 12
	}
	if meridiem == "am" && hour == 12 {
		t.Hour = 0
	}
	return t.Format12(), true
}
