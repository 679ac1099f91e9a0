package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"academy-map-api/internal/models"
)

// ErrMissingAcademyName is returned when a review lookup names no academy.
var ErrMissingAcademyName = errors.New("service: academy name cannot be empty")

// ReviewService serves the raw reviews of an academy
type ReviewService struct {
	repo ReviewRepository
}

// ReviewRepository interface for dependency injection
type ReviewRepository interface {
	FindReviewsByAcademyName(ctx context.Context, academyName string) ([]models.Review, error)
}

// NewReviewService creates a new review service
func NewReviewService(repo ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// Reviews returns the reviews stored under the academy name, with absent fields
// replaced by placeholders. An academy without reviews yields an empty slice.
func (s *ReviewService) Reviews(ctx context.Context, academyName string) ([]models.ReviewView, error) {
	academyName = strings.TrimSpace(academyName)
	if academyName == "" {
		return nil, ErrMissingAcademyName
	}

	reviews, err := s.repo.FindReviewsByAcademyName(ctx, academyName)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find reviews: %w", err)
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, r.View())
	}
	return views, nil
}
