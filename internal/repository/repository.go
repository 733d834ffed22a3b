package repository

import (
	"context"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
)

// ReviewStore defines the persistence operations for reviews. The store is
// append-only; records are never updated or removed.
type ReviewStore interface {
	// Append adds a review. It fails with apperrors.ErrAlreadyExists when a
	// review with the same ID is already stored.
	Append(ctx context.Context, review domain.Review) error

	// Snapshot returns a copy of every stored review in insertion order.
	// Callers may modify the returned slice freely.
	Snapshot(ctx context.Context) ([]domain.Review, error)

	// Locations returns the set of distinct locations among stored reviews.
	Locations(ctx context.Context) (map[string]struct{}, error)

	// Count returns the number of stored reviews.
	Count(ctx context.Context) (int, error)
}

// Store backends accepted by configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
