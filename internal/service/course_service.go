package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// CourseService lists the course names offered by stored academies
type CourseService struct {
	repo CourseRepository
}

// CourseRepository interface for dependency injection
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]string, error)
}

// NewCourseService creates a new course service
func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

// Courses returns the distinct, trimmed, non-empty course names in sorted order.
func (s *CourseService) Courses(ctx context.Context) ([]string, error) {
	raw, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list courses: %w", err)
	}

	courses := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			courses = append(courses, c)
		}
	}
	slices.Sort(courses)
	return slices.Compact(courses), nil
}
