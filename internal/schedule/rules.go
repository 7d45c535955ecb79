// Package schedule implements the clinic's scheduling engine: business-rule
// validation, free-slot allocation and the appointment lifecycle state
// machine. It owns no persistence; all calendar reads and writes go through
// a calendar.Store handle passed in explicitly.
package schedule

import (
	"time"

	"github.com/brightsmile/clinic-assistant/internal/extract"
)

// Clinic business hours: Monday through Friday, 09:00 inclusive to 17:00
// exclusive, at hourly slot granularity.
const (
	OpenHour  = 9
	CloseHour = 17
)

// RejectReason identifies why a candidate failed business-rule validation.
type RejectReason string

const (
	ReasonWeekendClosed RejectReason = "weekend_closed"
	ReasonOutsideHours  RejectReason = "outside_hours"
	ReasonMalformedTime RejectReason = "malformed_time"
)

// ValidateBusinessRules checks a candidate date and raw time string against
// fixed clinic policy. It is pure with respect to the calendar: occupancy is
// not consulted here. Checks run in order, weekday first, so a Saturday
// request is reported as a weekend closure even if the time is also bad.
func ValidateBusinessRules(date time.Time, rawTime string) (extract.TimeOfDay, RejectReason) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return extract.TimeOfDay{}, ReasonWeekendClosed
	}

	tod, err := extract.ParseTimeOfDay(rawTime)
	if err != nil {
		return extract.TimeOfDay{}, ReasonMalformedTime
	}

	if !WithinBusinessHours(tod) {
		return extract.TimeOfDay{}, ReasonOutsideHours
	}
	return tod, ""
}

// WithinBusinessHours reports whether the time falls in [09:00, 17:00).
// The upper bound is exclusive: 17:00 is closing time, not a slot.
func WithinBusinessHours(tod extract.TimeOfDay) bool {
	minutes := tod.Hour*60 + tod.Minute
	return minutes >= OpenHour*60 && minutes < CloseHour*60
}
