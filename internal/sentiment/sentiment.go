// Package sentiment defines how review text is scored for polarity.
package sentiment

import (
	"context"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
)

// Scorer computes the polarity of a piece of text. Implementations must be
// safe for concurrent use and deterministic for a given input.
type Scorer interface {
	Score(ctx context.Context, text string) (domain.Sentiment, error)
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(ctx context.Context, text string) (domain.Sentiment, error)

// Score calls f(ctx, text).
func (f ScorerFunc) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	return f(ctx, text)
}

// Scorer kinds accepted by configuration.
const (
	KindLexicon = "lexicon"
	KindRemote  = "remote"
)
