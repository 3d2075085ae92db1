package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	"github.com/mediconnect/clinic-api/internal/service/notification"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/metrics"
)

const dashboardLatest = 5

type Service struct {
	appointments repository.AppointmentRepository
	slots        repository.SlotRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	notifier     notification.Service
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	slots repository.SlotRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	notifier notification.Service,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		slots:        slots,
		doctors:      doctors,
		patients:     patients,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
	}
}

// OpenSlotsForDoctor projects the doctor's 7-day booking calendar
func (s *Service) OpenSlotsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DaySlots, error) {
	if _, err := s.getDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	ledger, err := s.slots.Ledger(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return OpenSlots(time.Now(), ledger), nil
}

// Book reserves the slot and records the appointment. The ledger insert
// goes first: its unique constraint is the double-booking guard, so a
// lost race surfaces here as Conflict before any appointment row exists.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("invalid doctor ID", err)
	}

	doctor, err := s.getDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, apperrors.Validation("doctor is not available for booking", nil)
	}

	if err := s.slots.Reserve(ctx, doctorID, req.SlotDate, req.SlotTime); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.metrics.SlotConflictsTotal.Inc()
			return nil, apperrors.Conflict("slot is not available", err)
		}
		return nil, apperrors.Internal(err)
	}

	appointment := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		DoctorID:  doctorID,
		PatientID: patientID,
		SlotDate:  req.SlotDate,
		SlotTime:  req.SlotTime,
		Fee:       doctor.Fees,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		// Give the slot back so a failed insert does not strand it.
		if relErr := s.slots.Release(ctx, doctorID, req.SlotDate, req.SlotTime); relErr != nil {
			s.logger.Error().Err(relErr).
				Str("doctor_id", doctorID.String()).
				Str("slot_date", req.SlotDate).
				Str("slot_time", req.SlotTime).
				Msg("failed to release slot after booking failure")
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.BookingsTotal.Inc()
	s.notifyBooked(ctx, appointment, doctor)
	return appointment, nil
}

// Cancel is the admin variant: no ownership check
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	return s.cancel(ctx, appointmentID, uuid.Nil, uuid.Nil)
}

// CancelForDoctor only cancels the doctor's own appointment
func (s *Service) CancelForDoctor(ctx context.Context, appointmentID, doctorID uuid.UUID) error {
	return s.cancel(ctx, appointmentID, doctorID, uuid.Nil)
}

// CancelForPatient only cancels the patient's own appointment
func (s *Service) CancelForPatient(ctx context.Context, appointmentID, patientID uuid.UUID) error {
	return s.cancel(ctx, appointmentID, uuid.Nil, patientID)
}

func (s *Service) cancel(ctx context.Context, appointmentID, doctorID, patientID uuid.UUID) error {
	appointment, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if doctorID != uuid.Nil && appointment.DoctorID != doctorID {
		return apperrors.Forbidden("appointment belongs to another doctor", nil)
	}
	if patientID != uuid.Nil && appointment.PatientID != patientID {
		return apperrors.Forbidden("appointment belongs to another patient", nil)
	}
	if appointment.Cancelled {
		return apperrors.Validation("appointment is already cancelled", nil)
	}

	appointment.Cancelled = true
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return apperrors.Internal(err)
	}

	// Release after the flag flip; removing an absent row is a no-op,
	// so a retried cancellation stays idempotent.
	if err := s.slots.Release(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime); err != nil {
		return apperrors.Internal(err)
	}

	s.metrics.CancellationsTotal.Inc()
	s.notifyCancelled(ctx, appointment)
	return nil
}

// Complete marks the doctor's own appointment as done
func (s *Service) Complete(ctx context.Context, appointmentID, doctorID uuid.UUID) error {
	appointment, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.DoctorID != doctorID {
		return apperrors.Forbidden("appointment belongs to another doctor", nil)
	}
	if appointment.Cancelled {
		return apperrors.Validation("cannot complete a cancelled appointment", nil)
	}

	appointment.Completed = true
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	patientCount, err := s.patients.Count(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	appointmentCount, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	latest, err := s.appointments.Latest(ctx, dashboardLatest)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.AdminDashboard{
		Doctors:            doctorCount,
		Patients:           patientCount,
		Appointments:       appointmentCount,
		LatestAppointments: latest,
	}, nil
}

func (s *Service) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*model.DoctorDashboard, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var earnings float64
	seen := make(map[uuid.UUID]struct{})
	for _, appointment := range appointments {
		if appointment.Completed {
			earnings += appointment.Fee
		}
		seen[appointment.PatientID] = struct{}{}
	}

	latest := appointments
	if len(latest) > dashboardLatest {
		latest = latest[:dashboardLatest]
	}

	return &model.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(seen),
		LatestAppointments: latest,
	}, nil
}

func (s *Service) getDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) getAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

func (s *Service) notifyBooked(ctx context.Context, appointment *model.Appointment, doctor *model.Doctor) {
	if s.notifier == nil {
		return
	}
	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping booking confirmation, patient lookup failed")
		return
	}
	if err := s.notifier.SendBookingConfirmation(ctx, patient.Email, doctor.Name, appointment.SlotDate, appointment.SlotTime); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("failed to send booking confirmation")
	}
}

func (s *Service) notifyCancelled(ctx context.Context, appointment *model.Appointment) {
	if s.notifier == nil {
		return
	}
	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping cancellation notice, patient lookup failed")
		return
	}
	if err := s.notifier.SendCancellationNotice(ctx, patient.Email, appointment.SlotDate, appointment.SlotTime); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("failed to send cancellation notice")
	}
}
