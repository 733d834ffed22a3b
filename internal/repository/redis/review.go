package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/pkg/database"
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

const (
	keyIDs       = "reviews:ids"
	keyList      = "reviews:list"
	keyLocations = "reviews:locations"
)

// ReviewStore implements repository.ReviewStore using Redis. Reviews are kept
// as JSON in a list; ID uniqueness and known locations are tracked in sets.
type ReviewStore struct {
	client *redis.Client
}

// NewReviewStore creates a new Redis-backed review store.
func NewReviewStore(client *redis.Client) *ReviewStore {
	return &ReviewStore{client: client}
}

// Append claims the review ID and then pushes the record and its location in
// a single MULTI/EXEC.
func (s *ReviewStore) Append(ctx context.Context, review domain.Review) (err error) {
	ctx, end := database.TraceCommand(ctx, "AppendReview", "SADD "+keyIDs+"; MULTI RPUSH "+keyList+" SADD "+keyLocations+" EXEC")
	defer func() { end(err) }()

	review.Sentiment = nil
	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	added, err := s.client.SAdd(ctx, keyIDs, review.ReviewID).Result()
	if err != nil {
		return fmt.Errorf("redis sadd review id: %w", err)
	}
	if added == 0 {
		return apperrors.AlreadyExists("review", "id", review.ReviewID)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, keyList, data)
		pipe.SAdd(ctx, keyLocations, review.Location)
		return nil
	})
	if err != nil {
		// Release the ID so the caller may retry.
		_ = s.client.SRem(context.WithoutCancel(ctx), keyIDs, review.ReviewID).Err()
		return fmt.Errorf("redis append review: %w", err)
	}

	return nil
}

// Snapshot returns every stored review in insertion order.
func (s *ReviewStore) Snapshot(ctx context.Context) (reviews []domain.Review, err error) {
	ctx, end := database.TraceCommand(ctx, "SnapshotReviews", "LRANGE "+keyList+" 0 -1")
	defer func() { end(err) }()

	raw, err := s.client.LRange(ctx, keyList, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange reviews: %w", err)
	}

	reviews = make([]domain.Review, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal([]byte(item), &reviews[i]); err != nil {
			return nil, fmt.Errorf("unmarshal review %d: %w", i, err)
		}
	}
	return reviews, nil
}

// Locations returns the set of known locations.
func (s *ReviewStore) Locations(ctx context.Context) (locations map[string]struct{}, err error) {
	ctx, end := database.TraceCommand(ctx, "ReviewLocations", "SMEMBERS "+keyLocations)
	defer func() { end(err) }()

	members, err := s.client.SMembers(ctx, keyLocations).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers locations: %w", err)
	}

	locations = make(map[string]struct{}, len(members))
	for _, m := range members {
		locations[m] = struct{}{}
	}
	return locations, nil
}

// Count returns the length of the review list.
func (s *ReviewStore) Count(ctx context.Context) (n int, err error) {
	ctx, end := database.TraceCommand(ctx, "CountReviews", "LLEN "+keyList)
	defer func() { end(err) }()

	length, err := s.client.LLen(ctx, keyList).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen reviews: %w", err)
	}
	return int(length), nil
}
