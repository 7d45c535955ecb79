package schedule

import (
	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/internal/extract"
)

// OutcomeKind is the terminal state of a scheduling request.
type OutcomeKind string

const (
	// OutcomeBooked: the candidate slot was free and is now booked.
	OutcomeBooked OutcomeKind = "booked"
	// OutcomeRescheduled: the old slot was released and the new one
	// booked in a single atomic step.
	OutcomeRescheduled OutcomeKind = "rescheduled"
	// OutcomeRejectedConflict: the slot is occupied; Alternatives holds
	// up to five free slots on the same day. No calendar mutation.
	OutcomeRejectedConflict OutcomeKind = "rejected_conflict"
	// OutcomeRejectedOutOfHours: business-rule validation failed; Reason
	// distinguishes weekend, out-of-range and malformed time.
	OutcomeRejectedOutOfHours OutcomeKind = "rejected_out_of_hours"
	// OutcomeRescheduleMissing: no existing appointment matches the
	// claimed old date/time. No calendar mutation.
	OutcomeRescheduleMissing OutcomeKind = "reschedule_missing"
	// OutcomeNeedsInfo: no actionable candidate was extracted; the
	// caller should prompt for the missing fields.
	OutcomeNeedsInfo OutcomeKind = "needs_info"
	// OutcomeStoreFailure: the calendar store failed mid-operation. The
	// request may be retried; no partial success is assumed.
	OutcomeStoreFailure OutcomeKind = "store_failure"
)

// Request is the structured input to the lifecycle manager, produced from
// a conversation intent.
type Request struct {
	Reschedule bool
	Candidate  *extract.Candidate
	Old        *extract.Candidate
	New        *extract.Candidate
}

// Outcome is the structured result of a scheduling request. The manager
// composes no prose; everything a presentation layer needs to render a
// localized message is populated here.
type Outcome struct {
	Kind         OutcomeKind
	Reason       RejectReason
	Appointment  *calendar.Appointment
	Candidate    *extract.Candidate
	Old          *extract.Candidate
	New          *extract.Candidate
	Alternatives []extract.TimeOfDay
}
