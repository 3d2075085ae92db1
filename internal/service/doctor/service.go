package doctor

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	"github.com/mediconnect/clinic-api/pkg/cache"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/imaging"
	"github.com/mediconnect/clinic-api/pkg/security"
)

const directoryCacheKey = "directory:doctors"

type Service struct {
	repo         repository.DoctorRepository
	hospitals    repository.HospitalRepository
	appointments repository.AppointmentRepository
	slots        repository.SlotRepository
	uploader     imaging.Uploader
	hasher       security.PasswordHasher
	cache        *cache.Store
	logger       zerolog.Logger
}

func NewService(
	repo repository.DoctorRepository,
	hospitals repository.HospitalRepository,
	appointments repository.AppointmentRepository,
	slots repository.SlotRepository,
	uploader imaging.Uploader,
	hasher security.PasswordHasher,
	cacheStore *cache.Store,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		hospitals:    hospitals,
		appointments: appointments,
		slots:        slots,
		uploader:     uploader,
		hasher:       hasher,
		cache:        cacheStore,
		logger:       logger,
	}
}

// Create adds a doctor from the admin console. The image is mandatory
// and uploaded before the record is written, matching the console flow.
func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest, image io.Reader) (*model.Doctor, error) {
	if image == nil {
		return nil, apperrors.Validation("doctor image is required", nil)
	}
	if req.Fees < 0 {
		return nil, apperrors.Validation("please enter a valid fee amount", nil)
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("doctor with this email already exists", nil)
	}

	if err := s.validateHospitalRefs(ctx, req.HospitalIDs); err != nil {
		return nil, err
	}

	id := uuid.New()
	imageURL, err := s.uploader.Upload(ctx, image, "doctor_"+id.String())
	if err != nil {
		return nil, apperrors.Upstream("failed to upload doctor image", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.Validation("password must be at least 8 characters", err)
		}
		return nil, apperrors.Internal(err)
	}

	doctor := &model.Doctor{
		Base:         model.Base{ID: id},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Speciality:   req.Speciality,
		Degree:       req.Degree,
		Experience:   req.Experience,
		About:        req.About,
		Fees:         req.Fees,
		Address:      model.Address{Line1: req.Line1, Line2: req.Line2},
		ImageURL:     imageURL,
		Available:    true,
		HospitalIDs:  pq.StringArray(req.HospitalIDs),
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("doctor with this email already exists", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, directoryCacheKey)
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest, image io.Reader) (*model.Doctor, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != doctor.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing != nil {
			return nil, apperrors.Conflict("doctor with this email already exists", nil)
		}
		doctor.Email = *req.Email
	}
	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Speciality != nil {
		doctor.Speciality = *req.Speciality
	}
	if req.Degree != nil {
		doctor.Degree = *req.Degree
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.Fees != nil {
		if *req.Fees < 0 {
			return nil, apperrors.Validation("please enter a valid fee amount", nil)
		}
		doctor.Fees = *req.Fees
	}
	if req.Line1 != nil {
		doctor.Line1 = *req.Line1
	}
	if req.Line2 != nil {
		doctor.Line2 = *req.Line2
	}
	if req.HospitalIDs != nil {
		if err := s.validateHospitalRefs(ctx, *req.HospitalIDs); err != nil {
			return nil, err
		}
		doctor.HospitalIDs = pq.StringArray(*req.HospitalIDs)
	}

	if image != nil {
		imageURL, err := s.uploader.Upload(ctx, image, "doctor_"+doctor.ID.String())
		if err != nil {
			return nil, apperrors.Upstream("failed to upload doctor image", err)
		}
		doctor.ImageURL = imageURL
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("doctor with this email already exists", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, directoryCacheKey)
	return doctor, nil
}

// Delete refuses to remove a doctor with any appointment on record,
// cancelled or completed included; appointment history must keep
// resolving its doctor reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	exists, err := s.appointments.ExistsForDoctor(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if exists {
		return apperrors.Conflict("cannot delete doctor with existing appointments", nil)
	}

	if err := s.slots.DeleteForDoctor(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor", err)
		}
		return apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, directoryCacheKey)
	return nil
}

// List returns every doctor with hospital references expanded, for the
// admin console.
func (s *Service) List(ctx context.Context) ([]*model.DoctorDetail, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.expandAll(ctx, doctors)
}

// PublicList is the browse view: cached, password hashes and emails
// stripped by the model's JSON tags.
func (s *Service) PublicList(ctx context.Context) ([]*model.Doctor, error) {
	var cached []*model.Doctor
	if s.cache.GetJSON(ctx, directoryCacheKey, &cached) {
		return cached, nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, doctor := range doctors {
		doctor.Email = ""
	}

	s.cache.SetJSON(ctx, directoryCacheKey, doctors)
	return doctors, nil
}

// Detail returns one doctor with hospital references expanded
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*model.DoctorDetail, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	doctor.Email = ""
	return s.expand(ctx, doctor)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.get(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	doctor.Available = available
	if err := s.repo.Update(ctx, doctor); err != nil {
		return apperrors.Internal(err)
	}
	s.cache.Invalidate(ctx, directoryCacheKey)
	return nil
}

// UpdateProfile applies the doctor's own edits (fees, about, address,
// availability), a narrower surface than the admin update.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.Doctor, error) {
	doctor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Fees != nil {
		if *req.Fees < 0 {
			return nil, apperrors.Validation("please enter a valid fee amount", nil)
		}
		doctor.Fees = *req.Fees
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.Line1 != nil {
		doctor.Line1 = *req.Line1
	}
	if req.Line2 != nil {
		doctor.Line2 = *req.Line2
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Invalidate(ctx, directoryCacheKey)
	return doctor, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) validateHospitalRefs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	// Parse and dedupe before touching the database; a malformed id
	// would otherwise surface as a Postgres cast error.
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return apperrors.Validation("invalid hospital id: "+id, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	hospitals, err := s.hospitals.ListByIDs(ctx, unique)
	if err != nil {
		return apperrors.Internal(err)
	}
	if len(hospitals) != len(unique) {
		return apperrors.Validation("some selected hospitals do not exist", nil)
	}
	return nil
}

func (s *Service) expand(ctx context.Context, doctor *model.Doctor) (*model.DoctorDetail, error) {
	hospitals, err := s.hospitals.ListByIDs(ctx, doctor.HospitalIDs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if hospitals == nil {
		hospitals = []*model.Hospital{}
	}
	return &model.DoctorDetail{Doctor: *doctor, Hospitals: hospitals}, nil
}

func (s *Service) expandAll(ctx context.Context, doctors []*model.Doctor) ([]*model.DoctorDetail, error) {
	details := make([]*model.DoctorDetail, 0, len(doctors))
	for _, doctor := range doctors {
		detail, err := s.expand(ctx, doctor)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}
