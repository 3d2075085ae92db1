package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
	logger zerolog.Logger
}

func NewService(repo repository.PatientRepository, hasher security.PasswordHasher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("account with this email already exists", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.Validation("password must be at least 8 characters", err)
		}
		return nil, apperrors.Internal(err)
	}

	patient := &model.Patient{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("account with this email already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}
