package memory

import (
	"context"
	"sync"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

// ReviewStore is an in-process repository.ReviewStore guarded by a RWMutex.
type ReviewStore struct {
	mu        sync.RWMutex
	reviews   []domain.Review
	ids       map[string]struct{}
	locations map[string]struct{}
}

// NewReviewStore creates an empty in-memory review store.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{
		ids:       make(map[string]struct{}),
		locations: make(map[string]struct{}),
	}
}

// Append stores review. Scores are never persisted.
func (s *ReviewStore) Append(_ context.Context, review domain.Review) error {
	review.Sentiment = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[review.ReviewID]; exists {
		return apperrors.AlreadyExists("review", "id", review.ReviewID)
	}
	s.ids[review.ReviewID] = struct{}{}
	s.locations[review.Location] = struct{}{}
	s.reviews = append(s.reviews, review)
	return nil
}

// Snapshot returns a copy of all reviews in insertion order.
func (s *ReviewStore) Snapshot(_ context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}

// Locations returns a copy of the known location set.
func (s *ReviewStore) Locations(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.locations))
	for loc := range s.locations {
		out[loc] = struct{}{}
	}
	return out, nil
}

// Count returns the number of stored reviews.
func (s *ReviewStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews), nil
}
