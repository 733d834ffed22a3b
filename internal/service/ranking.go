package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment"
	"github.com/utafrali/ReviewAnalyzer/pkg/tracing"
)

const tracerName = "github.com/utafrali/ReviewAnalyzer/internal/service"

// Ranker scores reviews and orders them by compound sentiment.
type Ranker struct {
	scorer sentiment.Scorer
}

// NewRanker creates a Ranker using scorer.
func NewRanker(scorer sentiment.Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// BuildRankedResponse scores each review body and returns copies carrying
// their sentiment, sorted by compound score descending. Ties keep their input
// order. A scorer failure aborts the whole response.
func (r *Ranker) BuildRankedResponse(ctx context.Context, reviews []domain.Review) (ranked []domain.Review, err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "ranking.BuildRankedResponse")
	span.SetAttributes(attribute.Int("review.count", len(reviews)))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	start := time.Now()
	ranked = make([]domain.Review, len(reviews))
	for i, review := range reviews {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("score reviews: %w", err)
		}
		score, err := r.scorer.Score(ctx, review.ReviewBody)
		if err != nil {
			return nil, fmt.Errorf("score review %s: %w", review.ReviewID, err)
		}
		ranked[i] = review.WithSentiment(score)
	}
	scoringDuration.Observe(time.Since(start).Seconds())

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sentiment.Compound > ranked[j].Sentiment.Compound
	})

	return ranked, nil
}
