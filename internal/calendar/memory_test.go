package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

var slot = time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

func TestMemoryStoreCreateRejectsOccupiedSlot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Create(ctx, "p-1", slot, "General Checkup", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", first.Status, StatusScheduled)
	}

	if _, err := s.Create(ctx, "p-2", slot, "General Checkup", ""); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second create err = %v, want ErrSlotTaken", err)
	}

	// A different slot on the same day is fine.
	if _, err := s.Create(ctx, "p-2", slot.Add(time.Hour), "General Checkup", ""); err != nil {
		t.Fatalf("adjacent slot create: %v", err)
	}
}

func TestMemoryStoreFindByPatientAndTime(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	early, err := s.Create(ctx, "p-1", slot, "General Checkup", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	late, err := s.Create(ctx, "p-1", slot.Add(3*time.Hour), "Teeth Cleaning", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByPatientAndTime(ctx, "p-1", slot, slot)
	if err != nil {
		t.Fatalf("exact find: %v", err)
	}
	if got.ID != early.ID {
		t.Errorf("exact find returned %s, want %s", got.ID, early.ID)
	}

	// Date-only lookup returns the latest appointment on the day.
	got, err = s.FindByPatientAndTime(ctx, "p-1", slot, time.Time{})
	if err != nil {
		t.Fatalf("date-only find: %v", err)
	}
	if got.ID != late.ID {
		t.Errorf("date-only find returned %s, want %s", got.ID, late.ID)
	}

	if _, err := s.FindByPatientAndTime(ctx, "p-2", slot, time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("other patient err = %v, want ErrNotFound", err)
	}
	if _, err := s.FindByPatientAndTime(ctx, "p-1", slot.AddDate(0, 0, 1), time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("other day err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRescheduleSwapsSlots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	appt, err := s.Create(ctx, "p-1", slot, "General Checkup", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAt := slot.AddDate(0, 0, 1)
	moved, err := s.Reschedule(ctx, appt.ID, newAt, "Rescheduled - Reason: General Checkup")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.ScheduledAt.Equal(newAt) {
		t.Errorf("scheduled_at = %v, want %v", moved.ScheduledAt, newAt)
	}
	if moved.Status != StatusRescheduled {
		t.Errorf("status = %q, want %q", moved.Status, StatusRescheduled)
	}

	// The old slot is released.
	if count, _ := s.CountActiveAt(ctx, slot); count != 0 {
		t.Errorf("old slot count = %d, want 0", count)
	}
	if count, _ := s.CountActiveAt(ctx, newAt); count != 1 {
		t.Errorf("new slot count = %d, want 1", count)
	}
}

func TestMemoryStoreRescheduleConflictLeavesOriginal(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	mine, err := s.Create(ctx, "p-1", slot, "General Checkup", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	taken := slot.Add(time.Hour)
	if _, err := s.Create(ctx, "p-2", taken, "General Checkup", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Reschedule(ctx, mine.ID, taken, ""); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("reschedule err = %v, want ErrSlotTaken", err)
	}

	// Failed swap left the appointment where it was.
	got, err := s.FindByPatientAndTime(ctx, "p-1", slot, slot)
	if err != nil {
		t.Fatalf("find after failed swap: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, StatusScheduled)
	}
}

func TestMemoryStoreListActiveTimes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, h := range []int{14, 9, 11} {
		at := time.Date(2026, time.March, 9, h, 0, 0, 0, time.UTC)
		if _, err := s.Create(ctx, "p-1", at, "General Checkup", ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	times, err := s.ListActiveTimes(ctx, slot)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("len = %d, want 3", len(times))
	}
	for i := 1; i < len(times); i++ {
		if !times[i-1].Before(times[i]) {
			t.Errorf("times not ascending: %v", times)
		}
	}
}

func TestMemoryStoreGetPatient(t *testing.T) {
	s := NewMemoryStore()
	s.AddPatient(Patient{ID: "p-1", Name: "Ali", Email: "ali@example.com"})

	p, err := s.GetPatient(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if p.Email != "ali@example.com" {
		t.Errorf("email = %q", p.Email)
	}

	if _, err := s.GetPatient(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing patient err = %v, want ErrNotFound", err)
	}
}
