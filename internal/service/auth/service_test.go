package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	"github.com/mediconnect/clinic-api/pkg/auth"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/security"
)

type fakeDoctorRepo struct {
	repository.DoctorRepository
	doctor *model.Doctor
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	if f.doctor != nil && f.doctor.Email == email {
		return f.doctor, nil
	}
	return nil, repository.ErrNotFound
}

type fakePatientRepo struct {
	repository.PatientRepository
	patient *model.Patient
}

func (f *fakePatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	if f.patient != nil && f.patient.Email == email {
		return f.patient, nil
	}
	return nil, repository.ErrNotFound
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T, doctors *fakeDoctorRepo, patients *fakePatientRepo) (*Service, *auth.JWTService) {
	t.Helper()
	tokens := auth.NewJWTService("test-secret", time.Hour)
	svc := NewService(doctors, patients, tokens, security.NewBcryptHasher(bcrypt.MinCost), AdminCredentials{
		Email:    "admin@mediconnect.io",
		Password: "adminpass",
	}, zerolog.Nop())
	return svc, tokens
}

func TestLoginAdmin(t *testing.T) {
	svc, tokens := newTestService(t, &fakeDoctorRepo{}, &fakePatientRepo{})

	resp, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Email:    "admin@mediconnect.io",
		Password: "adminpass",
	})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestLoginAdminBadCredentials(t *testing.T) {
	svc, _ := newTestService(t, &fakeDoctorRepo{}, &fakePatientRepo{})

	cases := []model.LoginRequest{
		{Email: "admin@mediconnect.io", Password: "wrong"},
		{Email: "other@mediconnect.io", Password: "adminpass"},
	}
	for _, req := range cases {
		_, err := svc.LoginAdmin(context.Background(), &req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))
	}
}

func TestLoginDoctor(t *testing.T) {
	doctor := &model.Doctor{
		Base:         model.Base{ID: uuid.New()},
		Email:        "asha@example.com",
		PasswordHash: hash(t, "docpass12"),
	}
	svc, tokens := newTestService(t, &fakeDoctorRepo{doctor: doctor}, &fakePatientRepo{})

	resp, err := svc.LoginDoctor(context.Background(), &model.LoginRequest{
		Email:    "asha@example.com",
		Password: "docpass12",
	})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleDoctor, claims.Role)
	assert.Equal(t, doctor.ID.String(), claims.Subject)
}

func TestLoginDoctorWrongPassword(t *testing.T) {
	doctor := &model.Doctor{
		Base:         model.Base{ID: uuid.New()},
		Email:        "asha@example.com",
		PasswordHash: hash(t, "docpass12"),
	}
	svc, _ := newTestService(t, &fakeDoctorRepo{doctor: doctor}, &fakePatientRepo{})

	_, err := svc.LoginDoctor(context.Background(), &model.LoginRequest{
		Email:    "asha@example.com",
		Password: "docpass13",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))
}

func TestLoginDoctorUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, &fakeDoctorRepo{}, &fakePatientRepo{})

	_, err := svc.LoginDoctor(context.Background(), &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	// Unknown accounts and bad passwords are indistinguishable.
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))
}

func TestLoginPatient(t *testing.T) {
	patient := &model.Patient{
		Base:         model.Base{ID: uuid.New()},
		Email:        "sita@example.com",
		PasswordHash: hash(t, "sitapass1"),
	}
	svc, tokens := newTestService(t, &fakeDoctorRepo{}, &fakePatientRepo{patient: patient})

	resp, err := svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email:    "sita@example.com",
		Password: "sitapass1",
	})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RolePatient, claims.Role)
}
