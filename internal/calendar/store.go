package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of an appointment. Appointments are never
// deleted; cancellation is a status transition.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
)

// Active reports whether the appointment occupies its slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// Appointment is a booked clinic slot. ScheduledAt carries both the date
// and the time of day at clinic slot granularity.
type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   string    `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patient is the directory entry used for confirmations.
type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

var (
	// ErrNotFound means no matching appointment or patient exists.
	ErrNotFound = errors.New("calendar: not found")
	// ErrSlotTaken means an active appointment already holds the slot.
	// The store enforces this atomically at write time; callers that
	// checked occupancy first can still lose the race and must treat
	// this as a conflict, not a failure.
	ErrSlotTaken = errors.New("calendar: slot already booked")
)

// Store is the single shared calendar resource. Implementations must
// guarantee that at most one active appointment exists per scheduled_at
// and that Reschedule either fully applies or leaves the appointment
// untouched.
type Store interface {
	// FindByPatientAndTime locates the patient's most recent active
	// appointment on the given day; when at is non-zero the time of day
	// must match exactly.
	FindByPatientAndTime(ctx context.Context, patientID string, day time.Time, at time.Time) (*Appointment, error)

	// Create books a new appointment with status scheduled.
	Create(ctx context.Context, patientID string, scheduledAt time.Time, reason, notes string) (*Appointment, error)

	// Reschedule atomically moves an appointment to a new slot and marks
	// it rescheduled. Returns ErrSlotTaken when the target slot is held
	// by another active appointment, leaving the original unchanged.
	Reschedule(ctx context.Context, id uuid.UUID, newAt time.Time, notes string) (*Appointment, error)

	// CountActiveAt returns the number of active appointments at the
	// exact date and time.
	CountActiveAt(ctx context.Context, at time.Time) (int, error)

	// ListActiveTimes returns the scheduled times of all active
	// appointments on the given day, ascending.
	ListActiveTimes(ctx context.Context, day time.Time) ([]time.Time, error)
}

// PatientDirectory resolves patient contact details for notifications.
type PatientDirectory interface {
	GetPatient(ctx context.Context, id string) (*Patient, error)
}
