package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists appointments in Postgres. A partial unique index
// on (scheduled_at) WHERE status <> 'cancelled' enforces the one-active-
// appointment-per-slot invariant at write time, so a lost check-then-book
// race surfaces as ErrSlotTaken rather than a double booking.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("calendar: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

const uniqueViolation = "23505"

func isSlotConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// FindByPatientAndTime locates the patient's most recent active appointment.
func (s *PostgresStore) FindByPatientAndTime(ctx context.Context, patientID string, day time.Time, at time.Time) (*Appointment, error) {
	query := `
		SELECT id, patient_id, scheduled_at, reason, notes, status, created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		  AND scheduled_at::date = $2::date
		  AND status <> 'cancelled'
	`
	args := []any{patientID, day}
	if !at.IsZero() {
		query += " AND scheduled_at = $3"
		args = append(args, at)
	}
	query += " ORDER BY scheduled_at DESC LIMIT 1"

	appt, err := scanAppointment(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("calendar: find appointment: %w", err)
	}
	return appt, nil
}

// Create books a new appointment row.
func (s *PostgresStore) Create(ctx context.Context, patientID string, scheduledAt time.Time, reason, notes string) (*Appointment, error) {
	id := uuid.New()
	query := `
		INSERT INTO appointments (id, patient_id, scheduled_at, reason, notes, status)
		VALUES ($1, $2, $3, $4, $5, 'scheduled')
		RETURNING id, patient_id, scheduled_at, reason, notes, status, created_at, updated_at
	`
	appt, err := scanAppointment(s.pool.QueryRow(ctx, query, id, patientID, scheduledAt, reason, notes))
	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("calendar: insert appointment: %w", err)
	}
	return appt, nil
}

// Reschedule moves the appointment in a single guarded UPDATE, so the old
// slot is released and the new one claimed atomically. A unique violation
// on the target slot leaves the row untouched.
func (s *PostgresStore) Reschedule(ctx context.Context, id uuid.UUID, newAt time.Time, notes string) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET scheduled_at = $2, notes = $3, status = 'rescheduled', updated_at = now()
		WHERE id = $1 AND status <> 'cancelled'
		RETURNING id, patient_id, scheduled_at, reason, notes, status, created_at, updated_at
	`
	appt, err := scanAppointment(s.pool.QueryRow(ctx, query, id, newAt, notes))
	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("calendar: reschedule appointment: %w", err)
	}
	return appt, nil
}

// CountActiveAt counts active appointments at the exact slot time.
func (s *PostgresStore) CountActiveAt(ctx context.Context, at time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE scheduled_at = $1 AND status <> 'cancelled'
	`
	var count int
	if err := s.pool.QueryRow(ctx, query, at).Scan(&count); err != nil {
		return 0, fmt.Errorf("calendar: count active: %w", err)
	}
	return count, nil
}

// ListActiveTimes returns occupied slot times for the day, ascending.
func (s *PostgresStore) ListActiveTimes(ctx context.Context, day time.Time) ([]time.Time, error) {
	query := `
		SELECT scheduled_at
		FROM appointments
		WHERE scheduled_at::date = $1::date AND status <> 'cancelled'
		ORDER BY scheduled_at
	`
	rows, err := s.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("calendar: list active times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("calendar: scan active time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calendar: list active times: %w", err)
	}
	return times, nil
}

// GetPatient fetches a patient directory entry.
func (s *PostgresStore) GetPatient(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT id, name, email FROM patients WHERE id = $1`
	var p Patient
	if err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("calendar: get patient: %w", err)
	}
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ScheduledAt,
		&a.Reason,
		&a.Notes,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var (
	_ Store            = (*PostgresStore)(nil)
	_ PatientDirectory = (*PostgresStore)(nil)
)
