package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/internal/extract"
	"github.com/brightsmile/clinic-assistant/internal/observability/metrics"
	"github.com/brightsmile/clinic-assistant/internal/slotlock"
	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

const maxAlternatives = 5

// Notifier receives best-effort appointment notifications. Implementations
// must not block; failures are their own concern and never propagate back
// into the scheduling result.
type Notifier interface {
	NotifyBooked(patient calendar.Patient, appt calendar.Appointment)
	NotifyRescheduled(patient calendar.Patient, oldAt time.Time, appt calendar.Appointment)
}

// Manager orchestrates validation, allocation, creation and reschedule as
// atomic operations against the calendar store. It is the entry point of
// the scheduling engine.
type Manager struct {
	store    calendar.Store
	patients calendar.PatientDirectory
	locker   slotlock.Locker
	alloc    *Allocator
	notifier Notifier
	metrics  *metrics.ChatMetrics
	logger   *logging.Logger
}

// NewManager constructs a lifecycle manager. patients, notifier and
// metrics are optional.
func NewManager(store calendar.Store, locker slotlock.Locker, opts ...ManagerOption) *Manager {
	if store == nil {
		panic("schedule: calendar store required")
	}
	if locker == nil {
		locker = slotlock.NewMemoryLocker()
	}
	m := &Manager{
		store:  store,
		locker: locker,
		alloc:  NewAllocator(store),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ManagerOption configures optional manager collaborators.
type ManagerOption func(*Manager)

func WithPatients(d calendar.PatientDirectory) ManagerOption {
	return func(m *Manager) { m.patients = d }
}

func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

func WithMetrics(mx *metrics.ChatMetrics) ManagerOption {
	return func(m *Manager) { m.metrics = mx }
}

func WithLogger(l *logging.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// Process runs one scheduling request through the state machine:
// reschedule when both old and new candidates are present, otherwise the
// validate → check occupancy → book path, otherwise needs-info.
func (m *Manager) Process(ctx context.Context, patientID string, req Request) Outcome {
	switch {
	case req.Reschedule && req.Old != nil && req.New != nil:
		return m.done(m.reschedule(ctx, patientID, *req.Old, *req.New))
	case req.Candidate != nil:
		return m.done(m.book(ctx, patientID, *req.Candidate))
	default:
		return m.done(Outcome{Kind: OutcomeNeedsInfo})
	}
}

func (m *Manager) done(o Outcome) Outcome {
	m.metrics.ObserveOutcome(string(o.Kind))
	return o
}

func (m *Manager) book(ctx context.Context, patientID string, cand extract.Candidate) Outcome {
	tod, reason := ValidateBusinessRules(cand.Date, cand.Time)
	if reason != "" {
		return Outcome{Kind: OutcomeRejectedOutOfHours, Reason: reason, Candidate: &cand}
	}

	slotAt := tod.At(cand.Date)
	notes := fmt.Sprintf("Reason: %s", cand.Reason)

	var appt *calendar.Appointment
	err := m.locker.WithSlotLock(ctx, slotAt, func(lockCtx context.Context) error {
		count, err := m.store.CountActiveAt(lockCtx, slotAt)
		if err != nil {
			return err
		}
		if count > 0 {
			return calendar.ErrSlotTaken
		}
		appt, err = m.store.Create(lockCtx, patientID, slotAt, string(cand.Reason), notes)
		return err
	})

	switch {
	case err == nil:
		m.logger.Info("appointment booked", "patient_id", patientID, "scheduled_at", slotAt)
		m.notify(ctx, patientID, func(p calendar.Patient) {
			m.notifier.NotifyBooked(p, *appt)
		})
		return Outcome{Kind: OutcomeBooked, Appointment: appt, Candidate: &cand}
	case errors.Is(err, calendar.ErrSlotTaken), errors.Is(err, slotlock.ErrNotAcquired):
		// The loser of a booking race gets a conflict with fresh
		// alternatives, never a silent overwrite.
		return m.conflict(ctx, cand)
	default:
		m.logger.Error("booking failed", "error", err, "patient_id", patientID, "scheduled_at", slotAt)
		return Outcome{Kind: OutcomeStoreFailure, Candidate: &cand}
	}
}

func (m *Manager) reschedule(ctx context.Context, patientID string, oldCand, newCand extract.Candidate) Outcome {
	// The target slot must itself satisfy clinic policy; moving an
	// appointment to a Saturday is rejected the same way booking one is.
	tod, reason := ValidateBusinessRules(newCand.Date, newCand.Time)
	if reason != "" {
		return Outcome{Kind: OutcomeRejectedOutOfHours, Reason: reason, Old: &oldCand, New: &newCand}
	}

	// Locate the appointment being moved. The old time is matched
	// exactly when it parses; otherwise the most recent active
	// appointment on the old date is taken.
	var oldAt time.Time
	if oldTod, err := extract.ParseTimeOfDay(oldCand.Time); err == nil {
		oldAt = oldTod.At(oldCand.Date)
	}
	existing, err := m.store.FindByPatientAndTime(ctx, patientID, oldCand.Date, oldAt)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return Outcome{Kind: OutcomeRescheduleMissing, Old: &oldCand, New: &newCand}
		}
		m.logger.Error("reschedule lookup failed", "error", err, "patient_id", patientID)
		return Outcome{Kind: OutcomeStoreFailure, Old: &oldCand, New: &newCand}
	}

	newAt := tod.At(newCand.Date)
	notes := fmt.Sprintf("Rescheduled - Reason: %s", newCand.Reason)

	var moved *calendar.Appointment
	err = m.locker.WithSlotLock(ctx, newAt, func(lockCtx context.Context) error {
		count, err := m.store.CountActiveAt(lockCtx, newAt)
		if err != nil {
			return err
		}
		if count > 0 {
			return calendar.ErrSlotTaken
		}
		moved, err = m.store.Reschedule(lockCtx, existing.ID, newAt, notes)
		return err
	})

	switch {
	case err == nil:
		m.logger.Info("appointment rescheduled",
			"patient_id", patientID,
			"appointment_id", existing.ID,
			"from", existing.ScheduledAt,
			"to", newAt,
		)
		prevAt := existing.ScheduledAt
		m.notify(ctx, patientID, func(p calendar.Patient) {
			m.notifier.NotifyRescheduled(p, prevAt, *moved)
		})
		return Outcome{Kind: OutcomeRescheduled, Appointment: moved, Old: &oldCand, New: &newCand}
	case errors.Is(err, calendar.ErrSlotTaken), errors.Is(err, slotlock.ErrNotAcquired):
		o := m.conflict(ctx, newCand)
		o.Old = &oldCand
		o.New = &newCand
		return o
	case errors.Is(err, calendar.ErrNotFound):
		// The appointment vanished between lookup and update; the
		// calendar is unchanged.
		return Outcome{Kind: OutcomeRescheduleMissing, Old: &oldCand, New: &newCand}
	default:
		m.logger.Error("reschedule failed", "error", err, "patient_id", patientID, "appointment_id", existing.ID)
		return Outcome{Kind: OutcomeStoreFailure, Old: &oldCand, New: &newCand}
	}
}

// conflict builds the rejected-with-alternatives outcome. The candidate is
// carried for rendering, but no appointment is attached: the requested slot
// was not booked.
func (m *Manager) conflict(ctx context.Context, cand extract.Candidate) Outcome {
	alts, err := m.alloc.SuggestAlternatives(ctx, cand.Date, cand.Time)
	if err != nil {
		m.logger.Error("alternative lookup failed", "error", err, "date", cand.Date)
		return Outcome{Kind: OutcomeStoreFailure, Candidate: &cand}
	}
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return Outcome{Kind: OutcomeRejectedConflict, Candidate: &cand, Alternatives: alts}
}

func (m *Manager) notify(ctx context.Context, patientID string, send func(calendar.Patient)) {
	if m.notifier == nil {
		return
	}
	patient := calendar.Patient{ID: patientID}
	if m.patients != nil {
		if p, err := m.patients.GetPatient(ctx, patientID); err == nil {
			patient = *p
		} else {
			m.logger.Warn("patient lookup for notification failed", "error", err, "patient_id", patientID)
		}
	}
	send(patient)
}
