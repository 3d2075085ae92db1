package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	"github.com/mediconnect/clinic-api/pkg/auth"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/security"
)

// AdminCredentials is the single operator account, configured rather
// than stored.
type AdminCredentials struct {
	Email    string
	Password string
}

type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	tokens   *auth.JWTService
	hasher   security.PasswordHasher
	admin    AdminCredentials
	logger   zerolog.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	tokens *auth.JWTService,
	hasher security.PasswordHasher,
	admin AdminCredentials,
	logger zerolog.Logger,
) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
		tokens:   tokens,
		hasher:   hasher,
		admin:    admin,
		logger:   logger,
	}
}

// LoginAdmin checks the configured operator credentials in constant
// time and issues an admin token.
func (s *Service) LoginAdmin(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.admin.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
	if !emailOK || !passwordOK {
		return nil, apperrors.Unauthenticated("invalid credentials", nil)
	}

	token, err := s.tokens.GenerateToken(s.admin.Email, auth.RoleAdmin, s.admin.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{Token: token, Role: string(auth.RoleAdmin)}, nil
}

func (s *Service) LoginDoctor(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthenticated("invalid credentials", nil)
		}
		return nil, apperrors.Internal(err)
	}

	if s.hasher.Compare(doctor.PasswordHash, req.Password) != nil {
		return nil, apperrors.Unauthenticated("invalid credentials", nil)
	}

	token, err := s.tokens.GenerateToken(doctor.ID.String(), auth.RoleDoctor, doctor.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{Token: token, Role: string(auth.RoleDoctor)}, nil
}

func (s *Service) LoginPatient(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthenticated("invalid credentials", nil)
		}
		return nil, apperrors.Internal(err)
	}

	if s.hasher.Compare(patient.PasswordHash, req.Password) != nil {
		return nil, apperrors.Unauthenticated("invalid credentials", nil)
	}

	token, err := s.tokens.GenerateToken(patient.ID.String(), auth.RolePatient, patient.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{Token: token, Role: string(auth.RolePatient)}, nil
}
