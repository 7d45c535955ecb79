package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var apptColumns = []string{"id", "patient_id", "scheduled_at", "reason", "notes", "status", "created_at", "updated_at"}

func apptRow(mock pgxmock.PgxPoolIface, id uuid.UUID, patientID string, at time.Time, status Status) *pgxmock.Rows {
	now := time.Now().UTC()
	return mock.NewRows(apptColumns).
		AddRow(id, patientID, at, "General Checkup", "", status, now, now)
}

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	at := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "p-1", at, "Teeth Cleaning", "Reason: Teeth Cleaning").
		WillReturnRows(apptRow(mock, uuid.New(), "p-1", at, StatusScheduled))

	s := NewPostgresStore(mock)
	appt, err := s.Create(context.Background(), "p-1", at, "Teeth Cleaning", "Reason: Teeth Cleaning")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !appt.ScheduledAt.Equal(at) {
		t.Errorf("scheduled_at = %v, want %v", appt.ScheduledAt, at)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresCreateSlotTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	at := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "p-1", at, "Teeth Cleaning", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_active_slot_idx"})

	s := NewPostgresStore(mock)
	if _, err := s.Create(context.Background(), "p-1", at, "Teeth Cleaning", ""); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresRescheduleErrors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"target slot held", &pgconn.PgError{Code: "23505"}, ErrSlotTaken},
		{"appointment gone", pgx.ErrNoRows, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("pgxmock: %v", err)
			}
			defer mock.Close()

			id := uuid.New()
			newAt := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
			mock.ExpectQuery("UPDATE appointments").
				WithArgs(id, newAt, "notes").
				WillReturnError(tt.dbErr)

			s := NewPostgresStore(mock)
			if _, err := s.Reschedule(context.Background(), id, newAt, "notes"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestPostgresReschedule(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	newAt := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE appointments").
		WithArgs(id, newAt, "Rescheduled - Reason: General Checkup").
		WillReturnRows(apptRow(mock, id, "p-1", newAt, StatusRescheduled))

	s := NewPostgresStore(mock)
	appt, err := s.Reschedule(context.Background(), id, newAt, "Rescheduled - Reason: General Checkup")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if appt.Status != StatusRescheduled {
		t.Errorf("status = %q, want %q", appt.Status, StatusRescheduled)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresFindByPatientAndTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)
	id := uuid.New()

	// Exact-time lookup carries the third argument.
	mock.ExpectQuery("SELECT id, patient_id, scheduled_at").
		WithArgs("p-1", day, at).
		WillReturnRows(apptRow(mock, id, "p-1", at, StatusScheduled))

	s := NewPostgresStore(mock)
	got, err := s.FindByPatientAndTime(context.Background(), "p-1", day, at)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %s, want %s", got.ID, id)
	}

	// Date-only lookup does not.
	mock.ExpectQuery("SELECT id, patient_id, scheduled_at").
		WithArgs("p-1", day).
		WillReturnError(pgx.ErrNoRows)

	if _, err := s.FindByPatientAndTime(context.Background(), "p-1", day, time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresCountActiveAt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	at := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(at).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))

	s := NewPostgresStore(mock)
	count, err := s.CountActiveAt(context.Background(), at)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresListActiveTimes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT scheduled_at").
		WithArgs(day).
		WillReturnRows(mock.NewRows([]string{"scheduled_at"}).
			AddRow(day.Add(9 * time.Hour)).
			AddRow(day.Add(14 * time.Hour)))

	s := NewPostgresStore(mock)
	times, err := s.ListActiveTimes(context.Background(), day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("len = %d, want 2", len(times))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresGetPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, email FROM patients").
		WithArgs("p-1").
		WillReturnRows(mock.NewRows([]string{"id", "name", "email"}).AddRow("p-1", "Ali", "ali@example.com"))

	s := NewPostgresStore(mock)
	p, err := s.GetPatient(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if p.Name != "Ali" {
		t.Errorf("name = %q", p.Name)
	}

	mock.ExpectQuery("SELECT id, name, email FROM patients").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := s.GetPatient(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
