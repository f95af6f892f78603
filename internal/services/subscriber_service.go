package services

import (
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// SubscriberService handles newsletter signups.
type SubscriberService struct {
	repo repositories.SubscriberRepository
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(repo repositories.SubscriberRepository) *SubscriberService {
	return &SubscriberService{
		repo: repo,
	}
}

// Subscribe records a signup. Subscribing an already-subscribed email is a
// conflict, not a silent no-op.
func (s *SubscriberService) Subscribe(email string) (*models.Subscriber, error) {
	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q already subscribed: %w", email, repositories.ErrConflict)
	}

	sub := &models.Subscriber{
		Email:        email,
		SubscribedAt: time.Now(),
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
