package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/mediconnect/clinic-api/internal/model"
	"github.com/mediconnect/clinic-api/internal/repository"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/metrics"
	"github.com/mediconnect/clinic-api/pkg/websearch"
)

const (
	// Queries shorter than this return an empty result set instead of
	// scanning the whole directory.
	minQueryLength = 2

	resultLimit = 10
)

type facilityIndex []model.Facility

func (f facilityIndex) String(i int) string { return f[i].Name + " " + f[i].City }
func (f facilityIndex) Len() int            { return len(f) }

type Service struct {
	doctors   repository.DoctorRepository
	hospitals repository.HospitalRepository
	web       *websearch.Client
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	hospitals repository.HospitalRepository,
	web *websearch.Client,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{doctors: doctors, hospitals: hospitals, web: web, metrics: m, logger: logger}
}

// Search fans out across doctors, active hospitals, the built-in
// facility directory, and the web. Web results are best effort; the
// other three arms fail the request if the database does.
func (s *Service) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	result := &model.SearchResult{
		Doctors:    []*model.Doctor{},
		Hospitals:  []*model.Hospital{},
		Facilities: []model.Facility{},
		Web:        []websearch.Result{},
	}

	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return result, nil
	}
	s.metrics.SearchesTotal.Inc()

	doctors, err := s.doctors.Search(ctx, query, resultLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, doctor := range doctors {
		doctor.Email = ""
	}
	if doctors != nil {
		result.Doctors = doctors
	}

	hospitals, err := s.hospitals.Search(ctx, query, resultLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if hospitals != nil {
		result.Hospitals = hospitals
	}

	result.Facilities = matchFacilities(query, resultLimit)

	if s.web.Enabled() {
		if web := s.web.Search(ctx, query, resultLimit); web != nil {
			result.Web = web
		}
	}

	return result, nil
}

func matchFacilities(query string, limit int) []model.Facility {
	matches := fuzzy.FindFrom(query, facilityIndex(facilities))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.Facility, 0, len(matches))
	for _, m := range matches {
		out = append(out, facilities[m.Index])
	}
	return out
}
