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

const doctorColumns = `id, name, email, password_hash, speciality, degree, experience,
	   about, fees, address_line1, address_line2, image_url, available,
	   hospital_ids, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, email, password_hash, speciality, degree, experience,
			about, fees, address_line1, address_line2, image_url, available,
			hospital_ids, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fees,
		doctor.Line1,
		doctor.Line2,
		doctor.ImageURL,
		doctor.Available,
		doctor.HospitalIDs,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "doctors_email_key") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, email = $2, speciality = $3, degree = $4, experience = $5,
			about = $6, fees = $7, address_line1 = $8, address_line2 = $9,
			image_url = $10, available = $11, hospital_ids = $12, updated_at = $13
		WHERE id = $14
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Email,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fees,
		doctor.Line1,
		doctor.Line2,
		doctor.ImageURL,
		doctor.Available,
		doctor.HospitalIDs,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "doctors_email_key") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update doctor: %w", err)
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

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
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

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY created_at DESC`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Search(ctx context.Context, term string, limit int) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE name ILIKE $1
		   OR speciality ILIKE $1
		   OR address_line1 ILIKE $1
		   OR address_line2 ILIKE $1
		LIMIT $2
	`
	pattern := "%" + escapeLike(term) + "%"

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors`); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
