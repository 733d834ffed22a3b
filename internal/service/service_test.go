package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/repository/memory"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment"
)

// --- Mocks ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Append(ctx context.Context, review domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockStore) Snapshot(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockStore) Locations(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tableScorer returns fixed compound scores keyed by review body.
func tableScorer(scores map[string]float64) sentiment.Scorer {
	return sentiment.ScorerFunc(func(ctx context.Context, text string) (domain.Sentiment, error) {
		return domain.Sentiment{Compound: scores[text]}, nil
	})
}

func mustTimestamp(t *testing.T, s string) domain.Timestamp {
	t.Helper()
	ts, err := domain.ParseTimestamp(s)
	require.NoError(t, err)
	return ts
}

func seedStore(t *testing.T, reviews ...domain.Review) *memory.ReviewStore {
	t.Helper()
	store := memory.NewReviewStore()
	for _, r := range reviews {
		require.NoError(t, store.Append(context.Background(), r))
	}
	return store
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

var fixedNow = time.Date(2024, 5, 17, 9, 41, 12, 500, time.Local)
