package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in tests and local development.
// A single mutex serializes the occupancy check inside Create/Reschedule
// with the write, giving the same at-most-one-active-per-slot guarantee
// the Postgres unique index provides.
type MemoryStore struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
	patients     map[string]*Patient
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[uuid.UUID]*Appointment),
		patients:     make(map[string]*Patient),
	}
}

// AddPatient seeds a patient directory entry.
func (s *MemoryStore) AddPatient(p Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.ID] = &p
}

func (s *MemoryStore) activeAt(at time.Time) *Appointment {
	for _, a := range s.appointments {
		if a.Status.Active() && a.ScheduledAt.Equal(at) {
			return a
		}
	}
	return nil
}

// FindByPatientAndTime locates the patient's most recent active appointment.
func (s *MemoryStore) FindByPatientAndTime(ctx context.Context, patientID string, day time.Time, at time.Time) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *Appointment
	for _, a := range s.appointments {
		if a.PatientID != patientID || !a.Status.Active() {
			continue
		}
		if !sameDay(a.ScheduledAt, day) {
			continue
		}
		if !at.IsZero() && !a.ScheduledAt.Equal(at) {
			continue
		}
		if found == nil || a.ScheduledAt.After(found.ScheduledAt) {
			found = a
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	cp := *found
	return &cp, nil
}

// Create books a new appointment, rejecting occupied slots.
func (s *MemoryStore) Create(ctx context.Context, patientID string, scheduledAt time.Time, reason, notes string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeAt(scheduledAt) != nil {
		return nil, ErrSlotTaken
	}

	now := time.Now().UTC()
	a := &Appointment{
		ID:          uuid.New(),
		PatientID:   patientID,
		ScheduledAt: scheduledAt,
		Reason:      reason,
		Notes:       notes,
		Status:      StatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.appointments[a.ID] = a
	cp := *a
	return &cp, nil
}

// Reschedule moves an appointment under the store lock; the slot swap is
// all-or-nothing.
func (s *MemoryStore) Reschedule(ctx context.Context, id uuid.UUID, newAt time.Time, notes string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok || !a.Status.Active() {
		return nil, ErrNotFound
	}
	if holder := s.activeAt(newAt); holder != nil && holder.ID != id {
		return nil, ErrSlotTaken
	}

	a.ScheduledAt = newAt
	a.Notes = notes
	a.Status = StatusRescheduled
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

// CountActiveAt counts active appointments at the exact slot time.
func (s *MemoryStore) CountActiveAt(ctx context.Context, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, a := range s.appointments {
		if a.Status.Active() && a.ScheduledAt.Equal(at) {
			count++
		}
	}
	return count, nil
}

// ListActiveTimes returns occupied slot times for the day, ascending.
func (s *MemoryStore) ListActiveTimes(ctx context.Context, day time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var times []time.Time
	for _, a := range s.appointments {
		if a.Status.Active() && sameDay(a.ScheduledAt, day) {
			times = append(times, a.ScheduledAt)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

// GetPatient fetches a seeded patient entry.
func (s *MemoryStore) GetPatient(ctx context.Context, id string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var (
	_ Store            = (*MemoryStore)(nil)
	_ PatientDirectory = (*MemoryStore)(nil)
)
