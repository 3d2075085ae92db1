package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/mediconnect/clinic-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

type hospitalRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type slotRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewSlotRepository(db *sqlx.DB) repository.SlotRepository {
	return &slotRepository{db: db}
}
