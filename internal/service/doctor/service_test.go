package doctor

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/security"
)

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	for _, existing := range f.doctors {
		if existing.Email == d.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.Email == email {
			copied := *d
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *d
	f.doctors[d.ID] = &copied
	return nil
}

func (f *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.doctors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.doctors, id)
	return nil
}

func (f *fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error) {
	out := make([]*model.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) Search(_ context.Context, _ string, _ int) ([]*model.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int, error) { return len(f.doctors), nil }

type fakeHospitalRepo struct {
	repository.HospitalRepository
	hospitals map[string]*model.Hospital
}

func (f *fakeHospitalRepo) ListByIDs(_ context.Context, ids []string) ([]*model.Hospital, error) {
	var out []*model.Hospital
	for _, id := range ids {
		if h, ok := f.hospitals[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	doctorsWithAppointments map[uuid.UUID]bool
}

func (f *fakeAppointmentRepo) ExistsForDoctor(_ context.Context, doctorID uuid.UUID) (bool, error) {
	return f.doctorsWithAppointments[doctorID], nil
}

type fakeSlotRepo struct {
	repository.SlotRepository
	deletedFor []uuid.UUID
}

func (f *fakeSlotRepo) DeleteForDoctor(_ context.Context, doctorID uuid.UUID) error {
	f.deletedFor = append(f.deletedFor, doctorID)
	return nil
}

type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, filename string) (string, error) {
	f.uploads++
	return "https://cdn.example.com/" + filename + ".png", nil
}

type testRepos struct {
	doctors      *fakeDoctorRepo
	hospitals    *fakeHospitalRepo
	appointments *fakeAppointmentRepo
	slots        *fakeSlotRepo
	uploader     *fakeUploader
}

func newTestService(t *testing.T) (*Service, *testRepos) {
	t.Helper()
	repos := &testRepos{
		doctors:      newFakeDoctorRepo(),
		hospitals:    &fakeHospitalRepo{hospitals: make(map[string]*model.Hospital)},
		appointments: &fakeAppointmentRepo{doctorsWithAppointments: make(map[uuid.UUID]bool)},
		slots:        &fakeSlotRepo{},
		uploader:     &fakeUploader{},
	}
	svc := NewService(repos.doctors, repos.hospitals, repos.appointments, repos.slots, repos.uploader, security.NewBcryptHasher(bcrypt.MinCost), nil, zerolog.Nop())
	return svc, repos
}

func createRequest(email string) *model.CreateDoctorRequest {
	return &model.CreateDoctorRequest{
		Name:       "Dr. Asha Koirala",
		Email:      email,
		Password:   "s3cretpass",
		Speciality: "Cardiology",
		Degree:     "MBBS, MD",
		Experience: "8 years",
		About:      "Consultant cardiologist.",
		Fees:       700,
		Line1:      "Maharajgunj",
	}
}

func TestCreate(t *testing.T) {
	svc, repos := newTestService(t)

	doctor, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, 1, repos.uploader.uploads)
	assert.NotEmpty(t, doctor.ImageURL)
	assert.True(t, doctor.Available)
	assert.NotEqual(t, "s3cretpass", doctor.PasswordHash)
}

func TestCreateRequiresImage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createRequest("asha@example.com"), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCreateRejectsUnknownHospital(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("asha@example.com")
	req.HospitalIDs = []string{uuid.New().String()}

	_, err := svc.Create(context.Background(), req, strings.NewReader("img"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateRejectsMalformedHospitalID(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("asha@example.com")
	req.HospitalIDs = []string{"not-a-uuid"}

	_, err := svc.Create(context.Background(), req, strings.NewReader("img"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation),
		"malformed id must fail validation, not reach the database")
}

func TestCreateDedupesHospitalRefs(t *testing.T) {
	svc, repos := newTestService(t)

	hospitalID := uuid.New().String()
	repos.hospitals.hospitals[hospitalID] = &model.Hospital{Name: "Grande City Clinic"}

	req := createRequest("asha@example.com")
	req.HospitalIDs = []string{hospitalID, hospitalID}

	_, err := svc.Create(context.Background(), req, strings.NewReader("img"))
	assert.NoError(t, err)
}

func TestDeleteGuard(t *testing.T) {
	svc, repos := newTestService(t)

	doctor, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	repos.appointments.doctorsWithAppointments[doctor.ID] = true

	err = svc.Delete(context.Background(), doctor.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	assert.Contains(t, repos.doctors.doctors, doctor.ID)
}

func TestDeleteClearsSlots(t *testing.T) {
	svc, repos := newTestService(t)

	doctor, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), doctor.ID))
	assert.NotContains(t, repos.doctors.doctors, doctor.ID)
	assert.Equal(t, []uuid.UUID{doctor.ID}, repos.slots.deletedFor)
}

func TestPublicListHidesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	listed, err := svc.PublicList(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Email)
}

func TestSetAvailability(t *testing.T) {
	svc, repos := newTestService(t)

	doctor, err := svc.Create(context.Background(), createRequest("asha@example.com"), strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, svc.SetAvailability(context.Background(), doctor.ID, false))
	assert.False(t, repos.doctors.doctors[doctor.ID].Available)
}
