package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	"github.com/mediconnect/clinic-api/internal/service/notification"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/metrics"
)

type fakeDoctorRepo struct {
	repository.DoctorRepository
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int, error) { return len(f.doctors), nil }

type fakePatientRepo struct {
	repository.PatientRepository
	count int
}

func (f *fakePatientRepo) Count(_ context.Context) (int, error) { return f.count, nil }

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return &model.Patient{Base: model.Base{ID: id}, Name: "Sita Sharma", Email: "sita@example.com"}, nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.appointments))
	for _, a := range f.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ExistsForDoctor(_ context.Context, doctorID uuid.UUID) (bool, error) {
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointmentRepo) Count(_ context.Context) (int, error) {
	return len(f.appointments), nil
}

func (f *fakeAppointmentRepo) Latest(_ context.Context, limit int) ([]*model.Appointment, error) {
	out, _ := f.List(context.Background())
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeSlotRepo reproduces the storage-level uniqueness guarantee in
// memory: a second Reserve on the same triple fails with ErrSlotTaken.
type fakeSlotRepo struct {
	reserved map[string]bool
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{reserved: make(map[string]bool)}
}

func slotKey(doctorID uuid.UUID, dateKey, timeLabel string) string {
	return doctorID.String() + "|" + dateKey + "|" + timeLabel
}

func (f *fakeSlotRepo) Reserve(_ context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error {
	key := slotKey(doctorID, dateKey, timeLabel)
	if f.reserved[key] {
		return repository.ErrSlotTaken
	}
	f.reserved[key] = true
	return nil
}

func (f *fakeSlotRepo) Release(_ context.Context, doctorID uuid.UUID, dateKey, timeLabel string) error {
	delete(f.reserved, slotKey(doctorID, dateKey, timeLabel))
	return nil
}

func (f *fakeSlotRepo) Ledger(_ context.Context, doctorID uuid.UUID) (model.SlotLedger, error) {
	ledger := make(model.SlotLedger)
	prefix := doctorID.String() + "|"
	for key := range f.reserved {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		parts := strings.SplitN(key[len(prefix):], "|", 2)
		ledger[parts[0]] = append(ledger[parts[0]], parts[1])
	}
	return ledger, nil
}

func (f *fakeSlotRepo) DeleteForDoctor(_ context.Context, doctorID uuid.UUID) error {
	for key := range f.reserved {
		if len(key) > 36 && key[:36] == doctorID.String() {
			delete(f.reserved, key)
		}
	}
	return nil
}

func (f *fakeSlotRepo) PruneBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *fakeDoctorRepo, *fakeAppointmentRepo, *fakeSlotRepo) {
	t.Helper()
	doctors := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
	appointments := newFakeAppointmentRepo()
	slots := newFakeSlotRepo()
	svc := NewService(
		appointments, slots, doctors, &fakePatientRepo{},
		notification.NewService(notification.Config{}),
		metrics.New("test"),
		zerolog.Nop(),
	)
	return svc, doctors, appointments, slots
}

func addDoctor(repo *fakeDoctorRepo, available bool) *model.Doctor {
	doctor := &model.Doctor{
		Base:      model.Base{ID: uuid.New()},
		Name:      "Dr. Asha Koirala",
		Fees:      500,
		Available: available,
	}
	repo.doctors[doctor.ID] = doctor
	return doctor
}

func TestBook(t *testing.T) {
	svc, doctors, _, slots := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	appt, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	assert.Equal(t, doctor.ID, appt.DoctorID)
	assert.Equal(t, patientID, appt.PatientID)
	assert.Equal(t, doctor.Fees, appt.Fee)
	assert.True(t, slots.reserved[slotKey(doctor.ID, "5_6_2025", "10:00 am")])
}

func TestBookSlotTaken(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)

	req := &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	}

	_, err := svc.Book(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestBookUnavailableDoctor(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, false)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestBookUnknownDoctor(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: uuid.New().String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestBookReleasesSlotWhenCreateFails(t *testing.T) {
	svc, doctors, appointments, slots := newTestService(t)
	doctor := addDoctor(doctors, true)
	appointments.createErr = assert.AnError

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.Error(t, err)
	assert.False(t, slots.reserved[slotKey(doctor.ID, "5_6_2025", "10:00 am")])
}

func TestCancelReleasesSlot(t *testing.T) {
	svc, doctors, _, slots := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	appt, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelForPatient(context.Background(), appt.ID, patientID))
	assert.False(t, slots.reserved[slotKey(doctor.ID, "5_6_2025", "10:00 am")])

	// The slot opens up again for someone else.
	_, err = svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	assert.NoError(t, err)
}

func hasOpenSlot(days []model.DaySlots, dateKey, label string) bool {
	for _, day := range days {
		if day.DateKey != dateKey {
			continue
		}
		for _, slot := range day.Slots {
			if slot.Label == label {
				return true
			}
		}
	}
	return false
}

func TestOpenSlotsTrackBookingLifecycle(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	// Tomorrow keeps the slot inside the booking window and clear of
	// the same-day start-time rounding.
	dateKey := DateKey(time.Now().AddDate(0, 0, 1))
	label := "11:00 am"

	appt, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: dateKey,
		SlotTime: label,
	})
	require.NoError(t, err)

	days, err := svc.OpenSlotsForDoctor(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.False(t, hasOpenSlot(days, dateKey, label))
	assert.True(t, hasOpenSlot(days, dateKey, "11:30 am"), "only the booked pair disappears")

	require.NoError(t, svc.CancelForPatient(context.Background(), appt.ID, patientID))

	days, err = svc.OpenSlotsForDoctor(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.True(t, hasOpenSlot(days, dateKey, label))
}

func TestLedgerScopedToDoctor(t *testing.T) {
	svc, doctors, _, slots := newTestService(t)
	first := addDoctor(doctors, true)
	second := addDoctor(doctors, true)

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: first.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	ledger, err := slots.Ledger(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, ledger.Has("5_6_2025", "10:00 am"))

	ledger, err = slots.Ledger(context.Background(), second.ID)
	require.NoError(t, err)
	assert.False(t, ledger.Has("5_6_2025", "10:00 am"))
}

func TestCancelOwnership(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	appt, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	err = svc.CancelForPatient(context.Background(), appt.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	err = svc.CancelForDoctor(context.Background(), appt.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	// Admin cancel skips the check.
	assert.NoError(t, svc.Cancel(context.Background(), appt.ID))
}

func TestCancelTwice(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	appt, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelForPatient(context.Background(), appt.ID, patientID))

	err = svc.CancelForPatient(context.Background(), appt.ID, patientID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestComplete(t *testing.T) {
	svc, doctors, appointments, _ := newTestService(t)
	doctor := addDoctor(doctors, true)

	appt, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	// Another doctor cannot complete it.
	err = svc.Complete(context.Background(), appt.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	require.NoError(t, svc.Complete(context.Background(), appt.ID, doctor.ID))

	stored, err := appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

func TestCompleteCancelled(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)

	appt, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), appt.ID))

	err = svc.Complete(context.Background(), appt.ID, doctor.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestDoctorDashboard(t *testing.T) {
	svc, doctors, _, _ := newTestService(t)
	doctor := addDoctor(doctors, true)
	patientID := uuid.New()

	first, err := svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:00 am",
	})
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), patientID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID.String(),
		SlotDate: "5_6_2025",
		SlotTime: "10:30 am",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Complete(context.Background(), first.ID, doctor.ID))

	dashboard, err := svc.DoctorDashboard(context.Background(), doctor.ID)
	require.NoError(t, err)

	// Only completed appointments count toward earnings.
	assert.Equal(t, doctor.Fees, dashboard.Earnings)
	assert.Equal(t, 2, dashboard.Appointments)
	assert.Equal(t, 1, dashboard.Patients)
}
