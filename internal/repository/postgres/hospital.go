package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
)

const hospitalColumns = `id, name, email, phone, type, address_line1, address_line2,
	   image_url, description, active, created_at, updated_at`

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			id, name, email, phone, type, address_line1, address_line2,
			image_url, description, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Email,
		hospital.Phone,
		hospital.Type,
		hospital.Line1,
		hospital.Line2,
		hospital.ImageURL,
		hospital.Description,
		hospital.Active,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "hospitals_email_key") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = $1`

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE email = $1`

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital by email: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals
		SET name = $1, email = $2, phone = $3, type = $4, address_line1 = $5,
			address_line2 = $6, image_url = $7, description = $8, active = $9,
			updated_at = $10
		WHERE id = $11
	`
	hospital.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		hospital.Name,
		hospital.Email,
		hospital.Phone,
		hospital.Type,
		hospital.Line1,
		hospital.Line2,
		hospital.ImageURL,
		hospital.Description,
		hospital.Active,
		hospital.UpdatedAt,
		hospital.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "hospitals_email_key") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update hospital: %w", err)
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

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals ORDER BY created_at DESC`

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

func (r *hospitalRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.Hospital, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = ANY($1)`

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list hospitals by ids: %w", err)
	}
	return hospitals, nil
}

func (r *hospitalRepository) Search(ctx context.Context, term string, limit int) ([]*model.Hospital, error) {
	query := `
		SELECT ` + hospitalColumns + `
		FROM hospitals
		WHERE active = TRUE
		  AND (name ILIKE $1
		   OR type ILIKE $1
		   OR address_line1 ILIKE $1
		   OR address_line2 ILIKE $1
		   OR description ILIKE $1)
		LIMIT $2
	`
	pattern := "%" + escapeLike(term) + "%"

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}
	return hospitals, nil
}

// DeleteCascade clears the hospital reference off every doctor and
// removes the hospital row in one transaction, so a doctor never holds
// a dangling reference past commit.
func (r *hospitalRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE doctors
		SET hospital_ids = array_remove(hospital_ids, $1), updated_at = $2
		WHERE $1 = ANY(hospital_ids)
	`, id.String(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear hospital references: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	deleted, err := tx.ExecContext(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete hospital: %w", err)
	}
	rows, err := deleted.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit hospital deletion: %w", err)
	}
	return affected, nil
}
