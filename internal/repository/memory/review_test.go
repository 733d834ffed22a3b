package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

func sampleReview(id, location string) domain.Review {
	return domain.Review{
		ReviewID:   id,
		ReviewBody: "Great stay",
		Location:   location,
		Timestamp:  domain.NewTimestamp(time.Date(2021, 1, 15, 10, 30, 0, 0, time.Local)),
	}
}

func TestReviewStore_AppendAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()

	require.NoError(t, store.Append(ctx, sampleReview("r1", "Denver, Colorado")))
	require.NoError(t, store.Append(ctx, sampleReview("r2", "Salt Lake City, Utah")))

	got, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ReviewID)
	assert.Equal(t, "r2", got[1].ReviewID)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReviewStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()

	require.NoError(t, store.Append(ctx, sampleReview("r1", "Denver, Colorado")))
	err := store.Append(ctx, sampleReview("r1", "Denver, Colorado"))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	n, _ := store.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestReviewStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()
	require.NoError(t, store.Append(ctx, sampleReview("r1", "Denver, Colorado")))

	snap, _ := store.Snapshot(ctx)
	snap[0].ReviewBody = "mutated"
	snap[0] = snap[0].WithSentiment(domain.Sentiment{Compound: 1})

	again, _ := store.Snapshot(ctx)
	assert.Equal(t, "Great stay", again[0].ReviewBody)
	assert.Nil(t, again[0].Sentiment)
}

func TestReviewStore_DropsSentimentOnAppend(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()
	r := sampleReview("r1", "Denver, Colorado").WithSentiment(domain.Sentiment{Compound: 0.9})
	require.NoError(t, store.Append(ctx, r))

	snap, _ := store.Snapshot(ctx)
	assert.Nil(t, snap[0].Sentiment)
}

func TestReviewStore_Locations(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()
	require.NoError(t, store.Append(ctx, sampleReview("r1", "Denver, Colorado")))
	require.NoError(t, store.Append(ctx, sampleReview("r2", "Denver, Colorado")))
	require.NoError(t, store.Append(ctx, sampleReview("r3", "Tucson, Arizona")))

	locs, err := store.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 2)
	assert.Contains(t, locs, "Denver, Colorado")
	assert.Contains(t, locs, "Tucson, Arizona")

	delete(locs, "Denver, Colorado")
	again, _ := store.Locations(ctx)
	assert.Contains(t, again, "Denver, Colorado")
}

func TestReviewStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewReviewStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, sampleReview(fmt.Sprintf("r%d", i), "Denver, Colorado")))
			_, _ = store.Snapshot(ctx)
		}(i)
	}
	wg.Wait()

	n, _ := store.Count(ctx)
	assert.Equal(t, 100, n)
}
