package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/model"
)

// Sentinel errors mapped by the postgres implementations; services
// translate them into the AppError taxonomy.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrSlotTaken      = errors.New("slot already booked")
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Doctor, error)
	Search(ctx context.Context, term string, limit int) ([]*model.Doctor, error)
	Count(ctx context.Context) (int, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital) error
	Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
	Update(ctx context.Context, hospital *model.Hospital) error
	List(ctx context.Context) ([]*model.Hospital, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Hospital, error)
	Search(ctx context.Context, term string, limit int) ([]*model.Hospital, error)
	// DeleteCascade removes the hospital reference from every doctor and
	// deletes the hospital in one transaction, returning the number of
	// doctor records modified.
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Count(ctx context.Context) (int, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	List(ctx context.Context) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
	Latest(ctx context.Context, limit int) ([]*model.Appointment, error)
}

// SlotRepository is the Availability Ledger. Occupancy is a row with a
// unique constraint on (doctor_id, slot_date, slot_time): Reserve is
// insert-or-fail, never read-then-append.
type SlotRepository interface {
	Reserve(ctx context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error
	Release(ctx context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error
	Ledger(ctx context.Context, doctorID uuid.UUID) (model.SlotLedger, error)
	DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error
	// PruneBefore drops ledger rows created before the cutoff. Slot
	// date-keys are not ordered lexically, so pruning goes by row age;
	// anything older than the booking window can never be offered again.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
