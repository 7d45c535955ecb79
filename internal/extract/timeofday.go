package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime is returned when a time string matches no supported format.
// Callers distinguish this from a parseable but out-of-range time.
var ErrMalformedTime = fmt.Errorf("extract: malformed time")

// TimeOfDay is a clock time without a date, at minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Format12 renders the time in 12-hour form, e.g. "9:00 AM".
func (t TimeOfDay) Format12() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

// Format24 renders the time in 24-hour form, e.g. "09:00".
func (t TimeOfDay) Format24() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// At anchors the time of day on the given calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

var (
	clockRE    = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)?$`)
	bareHourRE = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)
	hourOnlyRE = regexp.MustCompile(`^(\d{1,2})$`)
)

// ParseTimeOfDay parses the canonical time strings produced by the temporal
// extractor as well as common user-typed forms: "14:30", "2:30 PM", "2:30pm",
// "2 PM", "11am", "9:00". Returns ErrMalformedTime when nothing matches.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TimeOfDay{}, ErrMalformedTime
	}

	if m := clockRE.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if minute > 59 {
			return TimeOfDay{}, ErrMalformedTime
		}
		switch m[3] {
		case "pm":
			if hour < 1 || hour > 12 {
				return TimeOfDay{}, ErrMalformedTime
			}
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour < 1 || hour > 12 {
				return TimeOfDay{}, ErrMalformedTime
			}
			if hour == 12 {
				hour = 0
			}
		default:
			if hour > 23 {
				return TimeOfDay{}, ErrMalformedTime
			}
		}
		return TimeOfDay{Hour: hour, Minute: minute}, nil
	}

	if m := bareHourRE.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, ErrMalformedTime
		}
		if m[2] == "pm" && hour != 12 {
			hour += 12
		}
		if m[2] == "am" && hour == 12 {
			hour = 0
		}
		return TimeOfDay{Hour: hour}, nil
	}

	if m := hourOnlyRE.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			return TimeOfDay{}, ErrMalformedTime
		}
		return TimeOfDay{Hour: hour}, nil
	}

	return TimeOfDay{}, ErrMalformedTime
}
