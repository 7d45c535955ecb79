package schedule

import (
	"testing"
	"time"

	"github.com/brightsmile/clinic-assistant/internal/extract"
)

var (
	monday   = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
)

func TestValidateBusinessRules(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		rawTime    string
		wantReason RejectReason
		wantTime   extract.TimeOfDay
	}{
		{"opening slot", monday, "9:00 AM", "", extract.TimeOfDay{Hour: 9}},
		{"midday", monday, "14:30", "", extract.TimeOfDay{Hour: 14, Minute: 30}},
		{"last minute before close", monday, "4:59 PM", "", extract.TimeOfDay{Hour: 16, Minute: 59}},
		{"closing time excluded", monday, "5:00 PM", ReasonOutsideHours, extract.TimeOfDay{}},
		{"before opening", monday, "8:59 AM", ReasonOutsideHours, extract.TimeOfDay{}},
		{"evening", monday, "6:00 PM", ReasonOutsideHours, extract.TimeOfDay{}},
		{"saturday", saturday, "10:00 AM", ReasonWeekendClosed, extract.TimeOfDay{}},
		{"sunday", sunday, "10:00 AM", ReasonWeekendClosed, extract.TimeOfDay{}},
		{"malformed time", monday, "sometime soon", ReasonMalformedTime, extract.TimeOfDay{}},
		// Weekday is checked first, so a weekend with a broken time
		// still reads as a weekend closure.
		{"weekend beats malformed", saturday, "garbage", ReasonWeekendClosed, extract.TimeOfDay{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod, reason := ValidateBusinessRules(tt.date, tt.rawTime)
			if reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tt.wantReason)
			}
			if tod != tt.wantTime {
				t.Errorf("time = %+v, want %+v", tod, tt.wantTime)
			}
		})
	}
}

func TestWithinBusinessHours(t *testing.T) {
	if !WithinBusinessHours(extract.TimeOfDay{Hour: 9}) {
		t.Error("09:00 should be within hours")
	}
	if !WithinBusinessHours(extract.TimeOfDay{Hour: 16, Minute: 59}) {
		t.Error("16:59 should be within hours")
	}
	if WithinBusinessHours(extract.TimeOfDay{Hour: 17}) {
		t.Error("17:00 is closing time, not a bookable minute")
	}
	if WithinBusinessHours(extract.TimeOfDay{Hour: 8, Minute: 59}) {
		t.Error("08:59 should be outside hours")
	}
}
