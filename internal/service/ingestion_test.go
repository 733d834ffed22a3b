package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

var known = map[string]struct{}{"Denver, Colorado": {}, "Tucson, Arizona": {}}

func TestNewReview_Success(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fixedNow)

	r, err := NewReview(CreateReviewInput{ReviewBody: "Great stay", Location: "Denver, Colorado"}, known, clock)
	require.NoError(t, err)

	assert.Regexp(t, uuidV4, r.ReviewID)
	assert.Equal(t, "Great stay", r.ReviewBody)
	assert.Equal(t, "Denver, Colorado", r.Location)
	assert.Equal(t, "2024-05-17 09:41:12", r.Timestamp.String())
	assert.Nil(t, r.Sentiment)
}

func TestNewReview_FreshIDs(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fixedNow)
	input := CreateReviewInput{ReviewBody: "Great stay", Location: "Denver, Colorado"}

	a, err := NewReview(input, known, clock)
	require.NoError(t, err)
	b, err := NewReview(input, known, clock)
	require.NoError(t, err)
	assert.NotEqual(t, a.ReviewID, b.ReviewID)
}

func TestNewReview_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		input  CreateReviewInput
		fields []string
	}{
		{"missing body", CreateReviewInput{Location: "Denver, Colorado"}, []string{"ReviewBody"}},
		{"missing location", CreateReviewInput{ReviewBody: "Great"}, []string{"Location"}},
		{"missing both", CreateReviewInput{}, []string{"ReviewBody", "Location"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReview(tt.input, known, clockwork.NewFakeClock())
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrMissingField))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, domain.MsgMissingFields, appErr.Message)
			assert.Len(t, appErr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Equal(t, "is required", appErr.Fields[f])
			}
		})
	}
}

func TestNewReview_MissingFieldWinsOverUnknownLocation(t *testing.T) {
	_, err := NewReview(CreateReviewInput{Location: "Nowhere"}, known, clockwork.NewFakeClock())
	assert.ErrorIs(t, err, apperrors.ErrMissingField)
}

func TestNewReview_UnknownLocation(t *testing.T) {
	tests := []string{"Nowhere", "denver, colorado", "Denver, Colorado "}
	for _, loc := range tests {
		_, err := NewReview(CreateReviewInput{ReviewBody: "Great", Location: loc}, known, clockwork.NewFakeClock())
		require.Error(t, err, loc)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Invalid location", appErr.Message)
		assert.ErrorIs(t, err, apperrors.ErrUnknownLocation)
	}
}

func TestNewReview_EmptyKnownLocations(t *testing.T) {
	_, err := NewReview(CreateReviewInput{ReviewBody: "Great", Location: "Denver, Colorado"}, nil, clockwork.NewFakeClock())
	assert.ErrorIs(t, err, apperrors.ErrUnknownLocation)
}
