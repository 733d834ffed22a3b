package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/pkg/validator"
)

// CreateReviewInput holds the client-supplied fields of a new review.
type CreateReviewInput struct {
	ReviewBody string `form:"ReviewBody" json:"ReviewBody" validate:"required"`
	Location   string `form:"Location" json:"Location" validate:"required"`
}

// NewReview validates input and builds the review to be stored. Location must
// be one of knownLocations. The ID is a fresh UUIDv4 and the timestamp is the
// clock's current time.
func NewReview(input CreateReviewInput, knownLocations map[string]struct{}, clock clockwork.Clock) (*domain.Review, error) {
	if err := validator.Validate(input); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			return nil, domain.ErrMissingFields(ve.Fields())
		}
		return nil, err
	}

	if _, ok := knownLocations[input.Location]; !ok {
		return nil, domain.ErrInvalidLocation()
	}

	return &domain.Review{
		ReviewID:   uuid.NewString(),
		ReviewBody: input.ReviewBody,
		Location:   input.Location,
		Timestamp:  domain.NewTimestamp(clock.Now()),
	}, nil
}
