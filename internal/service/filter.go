package service

import (
	"github.com/utafrali/ReviewAnalyzer/internal/domain"
)

// FilterReviews returns the reviews matching every predicate of q, in their
// original order. The input is not modified and the result is never nil.
func FilterReviews(reviews []domain.Review, q *domain.ReviewQuery) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
