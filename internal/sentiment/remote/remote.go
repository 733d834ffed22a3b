// Package remote scores text by calling an external polarity service over
// HTTP, guarded by a circuit breaker.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/sentiment"
	"github.com/utafrali/ReviewAnalyzer/pkg/httpclient"
)

const serviceName = "sentiment"

type polarityRequest struct {
	Text string `json:"text"`
}

// Scorer is a sentiment.Scorer that delegates to a remote polarity endpoint.
// The endpoint accepts {"text": "..."} and answers with
// {"neg": .., "neu": .., "pos": .., "compound": ..}.
type Scorer struct {
	client   *httpclient.CircuitBreakerClient
	url      string
	fallback sentiment.Scorer
	logger   *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithFallback makes the Scorer answer from fb while the breaker is open.
func WithFallback(fb sentiment.Scorer) Option {
	return func(s *Scorer) { s.fallback = fb }
}

// New creates a remote Scorer posting to url through client.
func New(url string, client *httpclient.CircuitBreakerClient, logger *slog.Logger, opts ...Option) *Scorer {
	s := &Scorer{
		client: client,
		url:    url,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score implements sentiment.Scorer.
func (s *Scorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	payload, err := json.Marshal(polarityRequest{Text: text})
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("encode polarity request: %w", err)
	}

	resp, err := s.client.Post(ctx, s.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		if s.fallback != nil && rejectedByBreaker(err) {
			s.logger.WarnContext(ctx, "sentiment service unavailable, using fallback scorer",
				slog.String("error", err.Error()),
			)
			return s.fallback.Score(ctx, text)
		}
		return domain.Sentiment{}, fmt.Errorf("call sentiment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Sentiment{}, httpclient.ParseResponseError(resp, serviceName)
	}

	var score domain.Sentiment
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return domain.Sentiment{}, fmt.Errorf("decode polarity response: %w", err)
	}
	if score.Compound < -1 || score.Compound > 1 {
		return domain.Sentiment{}, fmt.Errorf("sentiment service returned compound %v outside [-1, 1]", score.Compound)
	}

	return score, nil
}

func rejectedByBreaker(err error) bool {
	return errors.Is(err, httpclient.ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
