package service

import (
	"context"
	"fmt"

	"academy-map-api/internal/models"
)

// ReputationService lists stored academy reputations
type ReputationService struct {
	repo ReputationLister
}

// ReputationLister interface for dependency injection
type ReputationLister interface {
	ListReputations(ctx context.Context) ([]models.Reputation, error)
}

// NewReputationService creates a new reputation service
func NewReputationService(repo ReputationLister) *ReputationService {
	return &ReputationService{repo: repo}
}

// Reputations returns every reputation, best score first.
func (s *ReputationService) Reputations(ctx context.Context) ([]models.Reputation, error) {
	reps, err := s.repo.ListReputations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list reputations: %w", err)
	}
	return reps, nil
}
