package hospital

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
)

type fakeHospitalRepo struct {
	repository.HospitalRepository
	hospitals    map[uuid.UUID]*model.Hospital
	cascadeCount int64
}

func newFakeHospitalRepo() *fakeHospitalRepo {
	return &fakeHospitalRepo{hospitals: make(map[uuid.UUID]*model.Hospital)}
}

func (f *fakeHospitalRepo) Create(_ context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	if h, ok := f.hospitals[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHospitalRepo) Update(_ context.Context, h *model.Hospital) error {
	if _, ok := f.hospitals[h.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *h
	f.hospitals[h.ID] = &copied
	return nil
}

func (f *fakeHospitalRepo) List(_ context.Context) ([]*model.Hospital, error) {
	out := make([]*model.Hospital, 0, len(f.hospitals))
	for _, h := range f.hospitals {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHospitalRepo) DeleteCascade(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.hospitals[id]; !ok {
		return 0, repository.ErrNotFound
	}
	delete(f.hospitals, id)
	return f.cascadeCount, nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, _ io.Reader, filename string) (string, error) {
	return "https://images.example.com/" + filename, nil
}

func newTestService(t *testing.T) (*Service, *fakeHospitalRepo) {
	t.Helper()
	repo := newFakeHospitalRepo()
	return NewService(repo, fakeUploader{}, zerolog.Nop()), repo
}

func testImage() io.Reader {
	return strings.NewReader("image-bytes")
}

func createRequest() *model.CreateHospitalRequest {
	return &model.CreateHospitalRequest{
		Name:  "Patan Hospital",
		Email: "info@patanhospital.org.np",
		Phone: "01-5522295",
		Type:  "Government",
		Line1: "Lagankhel, Lalitpur",
	}
}

func TestCreate(t *testing.T) {
	svc, repo := newTestService(t)

	hospital, err := svc.Create(context.Background(), createRequest(), testImage())
	require.NoError(t, err)

	assert.True(t, hospital.Active)
	assert.Equal(t, model.HospitalTypeGovernment, hospital.Type)
	assert.Contains(t, repo.hospitals, hospital.ID)
}

func TestCreateRequiresImage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), createRequest(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateInvalidType(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest()
	req.Type = "Cooperative"

	_, err := svc.Create(context.Background(), req, testImage())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestDeleteCascade(t *testing.T) {
	svc, repo := newTestService(t)
	repo.cascadeCount = 3

	hospital, err := svc.Create(context.Background(), createRequest(), testImage())
	require.NoError(t, err)

	message, err := svc.Delete(context.Background(), hospital.ID)
	require.NoError(t, err)

	assert.Equal(t, "Hospital deleted successfully. Removed from 3 doctor(s).", message)
	assert.NotContains(t, repo.hospitals, hospital.ID)
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestPublicListFiltersInactive(t *testing.T) {
	svc, repo := newTestService(t)

	active, err := svc.Create(context.Background(), createRequest(), testImage())
	require.NoError(t, err)

	req := createRequest()
	req.Name = "Closed Clinic"
	req.Email = "closed@example.com"
	hidden, err := svc.Create(context.Background(), req, testImage())
	require.NoError(t, err)
	repo.hospitals[hidden.ID].Active = false

	listed, err := svc.PublicList(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}
