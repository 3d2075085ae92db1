package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
)

const appointmentColumns = `id, doctor_id, patient_id, slot_date, slot_time, fee,
	   cancelled, completed, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, slot_date, slot_time, fee,
			cancelled, completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.SlotDate,
		appointment.SlotTime,
		appointment.Fee,
		appointment.Cancelled,
		appointment.Completed,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET cancelled = $1, completed = $2, updated_at = $3
		WHERE id = $4
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Cancelled,
		appointment.Completed,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY created_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor_id = $1 ORDER BY created_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY created_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

// ExistsForDoctor checks any appointment regardless of cancelled or
// completed status; history blocks doctor deletion.
func (r *appointmentRepository) ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM appointments WHERE doctor_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID); err != nil {
		return false, fmt.Errorf("failed to check doctor appointments: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) Latest(ctx context.Context, limit int) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY created_at DESC LIMIT $1`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest appointments: %w", err)
	}
	return appointments, nil
}
