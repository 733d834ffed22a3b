package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview_JSONShape(t *testing.T) {
	ts, err := ParseTimestamp("2021-06-01 14:03:09")
	require.NoError(t, err)

	r := Review{ReviewID: "r1", ReviewBody: "Nice", Location: "Denver, Colorado", Timestamp: ts}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ReviewId":"r1","ReviewBody":"Nice","Location":"Denver, Colorado","Timestamp":"2021-06-01 14:03:09"}`, string(data))

	scored := r.WithSentiment(Sentiment{Negative: 0.1, Neutral: 0.2, Positive: 0.7, Compound: 0.81})
	data, err = json.Marshal(scored)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ReviewId":"r1","ReviewBody":"Nice","Location":"Denver, Colorado","Timestamp":"2021-06-01 14:03:09",
		"sentiment":{"neg":0.1,"neu":0.2,"pos":0.7,"compound":0.81}}`, string(data))
	assert.Nil(t, r.Sentiment)
}

func TestTimestamp_RoundTrip(t *testing.T) {
	var r Review
	require.NoError(t, json.Unmarshal([]byte(`{"ReviewId":"x","Timestamp":"2020-12-31 23:59:59"}`), &r))
	assert.Equal(t, "2020-12-31 23:59:59", r.Timestamp.String())
	assert.Equal(t, time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), r.Timestamp.Date())
}

func TestTimestamp_Invalid(t *testing.T) {
	var r Review
	err := json.Unmarshal([]byte(`{"Timestamp":"2020-12-31T23:59:59Z"}`), &r)
	assert.Error(t, err)

	_, err = ParseTimestamp("31/12/2020")
	assert.ErrorContains(t, err, "parse timestamp")
}

func TestNewTimestamp_TruncatesToSeconds(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 999_999_999, time.Local))
	assert.Equal(t, "2024-01-02 03:04:05", ts.String())
	assert.Zero(t, ts.Nanosecond())
}
