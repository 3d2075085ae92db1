package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment records a booking. Records are never physically deleted;
// cancellation flips the flag and releases the ledger slot, so an
// appointment row can outlive its hold on the calendar.
type Appointment struct {
	Base
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	SlotDate  string    `json:"slot_date" db:"slot_date"`
	SlotTime  string    `json:"slot_time" db:"slot_time"`
	Fee       float64   `json:"fee" db:"fee"`
	Cancelled bool      `json:"cancelled" db:"cancelled"`
	Completed bool      `json:"completed" db:"completed"`
}

// SlotLedger maps a date-key (d_m_yyyy) to the time-labels already
// booked on that date for one doctor.
type SlotLedger map[string][]string

// Has reports whether the exact (date-key, time-label) pair is booked
func (l SlotLedger) Has(dateKey, timeLabel string) bool {
	for _, booked := range l[dateKey] {
		if booked == timeLabel {
			return true
		}
	}
	return false
}

// Slot is one open 30-minute window
type Slot struct {
	Time  time.Time `json:"datetime"`
	Label string    `json:"time"`
}

// DaySlots is the ordered set of open slots for one calendar day
type DaySlots struct {
	Date    time.Time `json:"date"`
	DateKey string    `json:"date_key"`
	Slots   []Slot    `json:"slots"`
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	SlotDate string `json:"slot_date" binding:"required"`
	SlotTime string `json:"slot_time" binding:"required"`
}

type CancelAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

type CompleteAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

// AdminDashboard aggregates platform counts for the admin console
type AdminDashboard struct {
	Doctors            int            `json:"doctors"`
	Patients           int            `json:"patients"`
	Appointments       int            `json:"appointments"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}

// DoctorDashboard aggregates one doctor's booking activity
type DoctorDashboard struct {
	Earnings           float64        `json:"earnings"`
	Appointments       int            `json:"appointments"`
	Patients           int            `json:"patients"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}
