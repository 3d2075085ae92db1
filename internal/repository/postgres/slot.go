package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
)

// The booked_slots table carries UNIQUE(doctor_id, slot_date, slot_time).
// Reserve relies on that constraint instead of a read-then-append: two
// concurrent bookings of the same slot cannot both commit.

func (r *slotRepository) Reserve(ctx context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error {
	query := `
		INSERT INTO booked_slots (doctor_id, slot_date, slot_time)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, dateKey, timeLabel); err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	return nil
}

// Release removes the ledger row. Releasing an absent slot is a no-op,
// which keeps cancellation idempotent on retry.
func (r *slotRepository) Release(ctx context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error {
	query := `
		DELETE FROM booked_slots
		WHERE doctor_id = $1 AND slot_date = $2 AND slot_time = $3
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, dateKey, timeLabel); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}

func (r *slotRepository) Ledger(ctx context.Context, doctorID uuid.UUID) (model.SlotLedger, error) {
	query := `
		SELECT slot_date, slot_time
		FROM booked_slots
		WHERE doctor_id = $1
	`
	rows, err := r.db.QueryxContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot ledger: %w", err)
	}
	defer rows.Close()

	ledger := make(model.SlotLedger)
	for rows.Next() {
		var date, label string
		if err := rows.Scan(&date, &label); err != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		ledger[date] = append(ledger[date], label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read slot ledger: %w", err)
	}
	return ledger, nil
}

func (r *slotRepository) DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM booked_slots WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to delete doctor slots: %w", err)
	}
	return nil
}

func (r *slotRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booked_slots WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune slot ledger: %w", err)
	}
	return res.RowsAffected()
}
