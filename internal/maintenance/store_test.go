package maintenance

import (
	"context"
	"slices"
	"sort"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/models"
	"academy-map-api/pkg/kakao"

	"github.com/stretchr/testify/mock"
)

func ptr[T any](v T) *T { return &v }

// memStore applies committed mutations to in-memory tables.
type memStore struct {
	academies   map[string]models.Academy
	reputations map[string]models.Reputation
	reviews     []models.Review
	counts      map[string]int

	commits [][]batch.Mutation
	// failCommit makes the n-th commit (1-based) fail.
	failCommit int
}

func newMemStore(academies ...models.Academy) *memStore {
	s := &memStore{
		academies:   map[string]models.Academy{},
		reputations: map[string]models.Reputation{},
	}
	for _, a := range academies {
		s.academies[a.ID] = a
	}
	return s
}

func (s *memStore) CommitBatch(_ context.Context, ms []batch.Mutation) error {
	if s.failCommit == len(s.commits)+1 {
		s.failCommit = -1
		return errCommit
	}
	s.commits = append(s.commits, slices.Clone(ms))

	for _, m := range ms {
		switch m.Op {
		case batch.OpInsertAcademy:
			s.academies[m.ID] = *m.Academy
		case batch.OpSetCoordinates:
			a := s.academies[m.ID]
			a.Latitude, a.Longitude, a.Geohash = ptr(m.Lat), ptr(m.Lng), ptr(m.Geohash)
			s.academies[m.ID] = a
		case batch.OpSetGeohash:
			a := s.academies[m.ID]
			a.Geohash = ptr(m.Geohash)
			s.academies[m.ID] = a
		case batch.OpDeleteAcademy:
			delete(s.academies, m.ID)
		case batch.OpInsertReview:
			s.reviews = append(s.reviews, *m.Review)
		case batch.OpUpsertReputation:
			s.reputations[m.ID] = *m.Reputation
		case batch.OpSetTotalReviews:
			r := s.reputations[m.ID]
			r.TotalReviews = m.Count
			s.reputations[m.ID] = r
		}
	}
	return nil
}

func (s *memStore) sorted(keep func(models.Academy) bool) []models.Academy {
	var out []models.Academy
	for _, a := range s.academies {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) ListAcademiesWithoutGeohash(context.Context) ([]models.Academy, error) {
	return s.sorted(func(a models.Academy) bool { return a.Geohash == nil }), nil
}

func (s *memStore) ListAcademiesWithoutCoordinates(_ context.Context, regions []string) ([]models.Academy, error) {
	return s.sorted(func(a models.Academy) bool {
		return !a.HasCoordinates() && (len(regions) == 0 || slices.Contains(regions, a.RegionName))
	}), nil
}

func (s *memStore) ListDistricts(context.Context) ([]string, error) {
	var out []string
	for _, a := range s.academies {
		if !slices.Contains(out, a.DistrictArea) {
			out = append(out, a.DistrictArea)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore) ListAcademiesByDistrict(_ context.Context, district string) ([]models.Academy, error) {
	return s.sorted(func(a models.Academy) bool { return a.DistrictArea == district }), nil
}

func (s *memStore) ListReviews(context.Context) ([]models.Review, error) {
	return s.reviews, nil
}

func (s *memStore) CountReviewsByAcademy(context.Context) (map[string]int, error) {
	return s.counts, nil
}

func (s *memStore) ListReputations(context.Context) ([]models.Reputation, error) {
	var out []models.Reputation
	for _, r := range s.reputations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcademyName < out[j].AcademyName })
	return out, nil
}

// MockGeocoder is a mock implementation of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kakao.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kakao.Coordinates), args.Error(1)
}
