package service

import (
	"context"
	"sort"
	"sync"

	"academy-map-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockAcademyRepository is a mock implementation of the AcademyRepository interface
type MockAcademyRepository struct {
	mock.Mock
}

func (m *MockAcademyRepository) FindAcademiesInGeohashRange(ctx context.Context, start, end string, limit int) ([]models.Academy, error) {
	args := m.Called(ctx, start, end, limit)
	return args.Get(0).([]models.Academy), args.Error(1)
}

func (m *MockAcademyRepository) ListAcademies(ctx context.Context) ([]models.Academy, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Academy), args.Error(1)
}

// MockReputationRepository is a mock implementation of the ReputationRepository interface
type MockReputationRepository struct {
	mock.Mock
}

func (m *MockReputationRepository) ListReputations(ctx context.Context) ([]models.Reputation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Reputation), args.Error(1)
}

func (m *MockReputationRepository) FindReputationsByNames(ctx context.Context, names []string) ([]models.Reputation, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]models.Reputation), args.Error(1)
}

// MockReviewRepository is a mock implementation of the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindReviewsByAcademyName(ctx context.Context, academyName string) ([]models.Review, error) {
	args := m.Called(ctx, academyName)
	return args.Get(0).([]models.Review), args.Error(1)
}

// MockCourseRepository is a mock implementation of the CourseRepository interface
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) ListCourses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// rangeStore answers range queries from an in-memory slice the way the academies table
// does: geohash order, inclusive bounds, limit applied.
type rangeStore struct {
	academies []models.Academy

	mu     sync.Mutex
	limits []int
}

func (s *rangeStore) FindAcademiesInGeohashRange(_ context.Context, start, end string, limit int) ([]models.Academy, error) {
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()

	var out []models.Academy
	for _, a := range s.academies {
		if a.Geohash != nil && *a.Geohash >= start && *a.Geohash <= end {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Geohash < *out[j].Geohash })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *rangeStore) ListAcademies(context.Context) ([]models.Academy, error) {
	return s.academies, nil
}

// nameStore answers reputation lookups by normalized name, folding stored names like
// the SQL query does, and records chunk sizes.
type nameStore struct {
	reputations []models.Reputation

	mu     sync.Mutex
	chunks []int
}

func (s *nameStore) ListReputations(context.Context) ([]models.Reputation, error) {
	return s.reputations, nil
}

func (s *nameStore) FindReputationsByNames(_ context.Context, names []string) ([]models.Reputation, error) {
	s.mu.Lock()
	s.chunks = append(s.chunks, len(names))
	s.mu.Unlock()

	var out []models.Reputation
	for _, r := range s.reputations {
		for _, n := range names {
			if models.NormalizeName(r.AcademyName) == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
