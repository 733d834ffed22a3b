package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

func review(t *testing.T, location, ts string) Review {
	t.Helper()
	parsed, err := ParseTimestamp(ts)
	require.NoError(t, err)
	return Review{Location: location, Timestamp: parsed}
}

func TestParseReviewQuery_Empty(t *testing.T) {
	q, err := ParseReviewQuery("", "", "")
	require.NoError(t, err)
	assert.Nil(t, q.Location)
	assert.Nil(t, q.StartDate)
	assert.Nil(t, q.EndDate)
}

func TestParseReviewQuery_AllFields(t *testing.T) {
	q, err := ParseReviewQuery("Salt Lake City, Utah", "2021-01-01", "2021-12-31")
	require.NoError(t, err)
	require.NotNil(t, q.Location)
	assert.Equal(t, "Salt Lake City, Utah", *q.Location)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), *q.StartDate)
	assert.Equal(t, time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), *q.EndDate)
}

func TestParseReviewQuery_MalformedDates(t *testing.T) {
	tests := []struct {
		start, end string
		param      string
	}{
		{"2021-13-01", "", "start_date"},
		{"yesterday", "", "start_date"},
		{"", "2021/01/31", "end_date"},
		{"", "2021-02-30", "end_date"},
	}

	for _, tt := range tests {
		_, err := ParseReviewQuery("", tt.start, tt.end)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		assert.Contains(t, err.Error(), tt.param)
	}
}

func TestReviewQuery_Matches(t *testing.T) {
	loc := "Denver, Colorado"
	start := time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 20, 0, 0, 0, 0, time.UTC)
	q := &ReviewQuery{Location: &loc, StartDate: &start, EndDate: &end}

	assert.True(t, q.Matches(review(t, loc, "2021-01-10 00:00:00")))
	assert.True(t, q.Matches(review(t, loc, "2021-01-20 23:59:59")))
	assert.False(t, q.Matches(review(t, loc, "2021-01-09 23:59:59")))
	assert.False(t, q.Matches(review(t, loc, "2021-01-21 00:00:00")))
	assert.False(t, q.Matches(review(t, "Tucson, Arizona", "2021-01-15 12:00:00")))
}

func TestReviewQuery_NilMatchesEverything(t *testing.T) {
	var q *ReviewQuery
	assert.True(t, q.Matches(review(t, "Anywhere", "1999-01-01 00:00:00")))
	assert.True(t, (&ReviewQuery{}).Matches(review(t, "Anywhere", "1999-01-01 00:00:00")))
}
