package hospital

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/imaging"
)

type Service struct {
	repo     repository.HospitalRepository
	uploader imaging.Uploader
	logger   zerolog.Logger
}

func NewService(repo repository.HospitalRepository, uploader imaging.Uploader, logger zerolog.Logger) *Service {
	return &Service{repo: repo, uploader: uploader, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.CreateHospitalRequest, image io.Reader) (*model.Hospital, error) {
	if image == nil {
		return nil, apperrors.Validation("hospital image is required", nil)
	}
	hospitalType := model.HospitalType(req.Type)
	if !hospitalType.Valid() {
		return nil, apperrors.Validation("invalid hospital type", nil)
	}

	hospital := &model.Hospital{
		Base:        model.Base{ID: uuid.New()},
		Name:        req.Name,
		Type:        hospitalType,
		Address:     model.Address{Line1: req.Line1, Line2: req.Line2},
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		Active:      true,
	}

	imageURL, err := s.uploader.Upload(ctx, image, "hospital_"+hospital.ID.String())
	if err != nil {
		return nil, apperrors.Upstream("failed to upload hospital image", err)
	}
	hospital.ImageURL = imageURL

	if err := s.repo.Create(ctx, hospital); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("hospital with this email already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return hospital, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateHospitalRequest, image io.Reader) (*model.Hospital, error) {
	hospital, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Type != nil {
		hospitalType := model.HospitalType(*req.Type)
		if !hospitalType.Valid() {
			return nil, apperrors.Validation("invalid hospital type", nil)
		}
		hospital.Type = hospitalType
	}
	if req.Line1 != nil {
		hospital.Line1 = *req.Line1
	}
	if req.Line2 != nil {
		hospital.Line2 = *req.Line2
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.Email != nil {
		hospital.Email = *req.Email
	}
	if req.Description != nil {
		hospital.Description = *req.Description
	}
	if req.Active != nil {
		hospital.Active = *req.Active
	}

	if image != nil {
		imageURL, err := s.uploader.Upload(ctx, image, "hospital_"+hospital.ID.String())
		if err != nil {
			return nil, apperrors.Upstream("failed to upload hospital image", err)
		}
		hospital.ImageURL = imageURL
	}

	if err := s.repo.Update(ctx, hospital); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("hospital with this email already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return hospital, nil
}

// Delete removes the hospital and scrubs its id from every doctor's
// hospital list in the same transaction. Returns the operator-facing
// summary message.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	affected, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NotFound("hospital", err)
		}
		return "", apperrors.Internal(err)
	}

	s.logger.Info().
		Str("hospital_id", id.String()).
		Int64("doctors_updated", affected).
		Msg("hospital deleted")

	return fmt.Sprintf("Hospital deleted successfully. Removed from %d doctor(s).", affected), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return hospitals, nil
}

// PublicList hides inactive hospitals from the browse view.
func (s *Service) PublicList(ctx context.Context) ([]*model.Hospital, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	active := make([]*model.Hospital, 0, len(hospitals))
	for _, hospital := range hospitals {
		if hospital.Active {
			active = append(active, hospital)
		}
	}
	return active, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, apperrors.Internal(err)
	}
	return hospital, nil
}
