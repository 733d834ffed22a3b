package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/repository"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

// EventPublisher announces accepted reviews to other systems.
type EventPublisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
}

// ReviewService implements the business logic for listing and submitting
// reviews.
type ReviewService struct {
	store     repository.ReviewStore
	ranker    *Ranker
	publisher EventPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
}

// Option configures a ReviewService.
type Option func(*ReviewService)

// WithClock sets the clock used to timestamp new reviews.
func WithClock(c clockwork.Clock) Option {
	return func(s *ReviewService) { s.clock = c }
}

// WithPublisher sets the publisher notified of new reviews.
func WithPublisher(p EventPublisher) Option {
	return func(s *ReviewService) { s.publisher = p }
}

// NewReviewService creates a new review service.
func NewReviewService(store repository.ReviewStore, ranker *Ranker, logger *slog.Logger, opts ...Option) *ReviewService {
	s := &ReviewService{
		store:  store,
		ranker: ranker,
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListReviews returns the reviews matching q, scored and ranked by compound
// sentiment. The result is never nil.
func (s *ReviewService) ListReviews(ctx context.Context, q *domain.ReviewQuery) ([]domain.Review, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	filtered := FilterReviews(snapshot, q)
	ranked, err := s.ranker.BuildRankedResponse(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	s.logger.DebugContext(ctx, "reviews listed",
		slog.Int("stored", len(snapshot)),
		slog.Int("matched", len(ranked)),
	)
	return ranked, nil
}

// CreateReview validates input against the current set of locations and
// appends the new review.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	locations, err := s.store.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	review, err := NewReview(input, locations, s.clock)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMissingField):
			reviewsRejected.WithLabelValues(reasonMissingField).Inc()
		case errors.Is(err, apperrors.ErrUnknownLocation):
			reviewsRejected.WithLabelValues(reasonUnknownLocation).Inc()
		}
		return nil, err
	}

	if err := s.store.Append(ctx, *review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	reviewsCreated.Inc()

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ReviewID),
		slog.String("location", review.Location),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishReviewCreated(ctx, review); err != nil {
			s.logger.WarnContext(ctx, "failed to publish review.created event",
				slog.String("review_id", review.ReviewID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}
