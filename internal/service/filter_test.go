package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
)

func filterFixture(t *testing.T) []domain.Review {
	return []domain.Review{
		{ReviewID: "a", Location: "Denver, Colorado", Timestamp: mustTimestamp(t, "2021-01-01 00:00:00")},
		{ReviewID: "b", Location: "Tucson, Arizona", Timestamp: mustTimestamp(t, "2021-01-15 12:00:00")},
		{ReviewID: "c", Location: "Denver, Colorado", Timestamp: mustTimestamp(t, "2021-01-31 23:59:59")},
		{ReviewID: "d", Location: "Denver, Colorado", Timestamp: mustTimestamp(t, "2021-02-01 00:00:00")},
	}
}

func ids(reviews []domain.Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.ReviewID
	}
	return out
}

func TestFilterReviews(t *testing.T) {
	tests := []struct {
		name                 string
		location, start, end string
		want                 []string
	}{
		{"no predicates", "", "", "", []string{"a", "b", "c", "d"}},
		{"location", "Denver, Colorado", "", "", []string{"a", "c", "d"}},
		{"location is case sensitive", "denver, colorado", "", "", []string{}},
		{"unknown location", "Nowhere", "", "", []string{}},
		{"start inclusive", "", "2021-01-31", "", []string{"c", "d"}},
		{"end inclusive ignores time of day", "", "", "2021-01-31", []string{"a", "b", "c"}},
		{"range", "", "2021-01-02", "2021-01-31", []string{"b", "c"}},
		{"single day", "", "2021-01-15", "2021-01-15", []string{"b"}},
		{"all predicates", "Denver, Colorado", "2021-01-01", "2021-01-31", []string{"a", "c"}},
		{"inverted range", "", "2021-02-01", "2021-01-01", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := domain.ParseReviewQuery(tt.location, tt.start, tt.end)
			require.NoError(t, err)

			got := FilterReviews(filterFixture(t), q)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterReviews_DoesNotMutateInput(t *testing.T) {
	in := filterFixture(t)
	loc := "Tucson, Arizona"
	_ = FilterReviews(in, &domain.ReviewQuery{Location: &loc})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in))
}

func TestFilterReviews_NilQuery(t *testing.T) {
	assert.Len(t, FilterReviews(filterFixture(t), nil), 4)
	assert.NotNil(t, FilterReviews(nil, nil))
}
