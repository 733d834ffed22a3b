// Package lexicon scores text against a weighted word list, following the
// rule set popularised by VADER: per-word valence adjusted for negation,
// intensifiers, capitalisation, contrastive "but" and trailing punctuation.
package lexicon

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
)

//go:embed vader_lexicon.txt
var embedded []byte

const (
	boosterIncr  = 0.293
	boosterDecr  = -0.293
	capsIncr     = 0.733
	negateScalar = -0.74
	normAlpha    = 15.0
	lookback     = 3
)

var dampening = [lookback]float64{1, 0.95, 0.9}

var negations = map[string]bool{
	"aint": true, "arent": true, "cannot": true, "cant": true, "couldnt": true,
	"darent": true, "didnt": true, "doesnt": true, "dont": true, "hadnt": true,
	"hasnt": true, "havent": true, "isnt": true, "mightnt": true, "mustnt": true,
	"neither": true, "never": true, "no": true, "nobody": true, "none": true,
	"nope": true, "nor": true, "not": true, "nothing": true, "nowhere": true,
	"shouldnt": true, "wasnt": true, "werent": true, "without": true,
	"wont": true, "wouldnt": true, "rarely": true, "seldom": true,
}

var boosters = map[string]float64{
	"absolutely": boosterIncr, "amazingly": boosterIncr, "awfully": boosterIncr,
	"completely": boosterIncr, "considerably": boosterIncr, "decidedly": boosterIncr,
	"deeply": boosterIncr, "enormously": boosterIncr, "entirely": boosterIncr,
	"especially": boosterIncr, "exceptionally": boosterIncr, "extremely": boosterIncr,
	"fully": boosterIncr, "greatly": boosterIncr, "highly": boosterIncr,
	"hugely": boosterIncr, "incredibly": boosterIncr, "intensely": boosterIncr,
	"most": boosterIncr, "particularly": boosterIncr, "purely": boosterIncr,
	"quite": boosterIncr, "really": boosterIncr, "remarkably": boosterIncr,
	"so": boosterIncr, "substantially": boosterIncr, "super": boosterIncr,
	"thoroughly": boosterIncr, "totally": boosterIncr, "tremendously": boosterIncr,
	"truly": boosterIncr, "unbelievably": boosterIncr, "utterly": boosterIncr,
	"very":   boosterIncr,
	"almost": boosterDecr, "barely": boosterDecr, "hardly": boosterDecr,
	"less": boosterDecr, "little": boosterDecr, "marginally": boosterDecr,
	"occasionally": boosterDecr, "partly": boosterDecr, "scarcely": boosterDecr,
	"slightly": boosterDecr, "somewhat": boosterDecr,
}

var loadDefault = sync.OnceValues(func() (map[string]float64, error) {
	return Parse(bytes.NewReader(embedded))
})

// Parse reads a lexicon of "token<TAB>valence" lines. Blank lines and lines
// starting with '#' are skipped. Tokens are matched case-insensitively.
func Parse(r io.Reader) (map[string]float64, error) {
	lex := make(map[string]float64)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: expected token and valence", line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(fields[0])] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}

// Scorer is a sentiment.Scorer backed by an in-memory lexicon. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	lexicon map[string]float64
}

// New returns a Scorer using the embedded lexicon.
func New() (*Scorer, error) {
	lex, err := loadDefault()
	if err != nil {
		return nil, fmt.Errorf("load embedded lexicon: %w", err)
	}
	return &Scorer{lexicon: lex}, nil
}

// NewWithLexicon returns a Scorer using lex. Keys must be lower case.
func NewWithLexicon(lex map[string]float64) *Scorer {
	return &Scorer{lexicon: lex}
}

// Score implements sentiment.Scorer.
func (s *Scorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sentiment{}, err
	}
	return s.Polarity(text), nil
}

// Polarity returns the sentiment of text. Compound is normalised to [-1, 1].
func (s *Scorer) Polarity(text string) domain.Sentiment {
	words := s.tokenize(text)
	if len(words) == 0 {
		return domain.Sentiment{}
	}

	capDiff := capsDifferential(words)
	valences := make([]float64, len(words))
	for i, w := range words {
		lower := strings.ToLower(w)
		if _, ok := boosters[lower]; ok {
			continue
		}
		v, ok := s.lexicon[lower]
		if !ok || v == 0 {
			continue
		}
		if capDiff && isUpper(w) {
			v += math.Copysign(capsIncr, v)
		}
		for back := 1; back <= lookback && i-back >= 0; back++ {
			prev := words[i-back]
			if b := boosterScalar(prev, v, capDiff); b != 0 {
				v += b * dampening[back-1]
			}
			if isNegation(prev) {
				v *= negateScalar
			}
		}
		valences[i] = v
	}

	applyButRule(words, valences)
	return summarize(valences, punctuationEmphasis(text))
}

// tokenize splits text on whitespace and strips surrounding punctuation.
// Single-letter words are dropped; emoticons known to the lexicon are kept.
func (s *Scorer) tokenize(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := s.lexicon[strings.ToLower(f)]; ok {
			words = append(words, f)
			continue
		}
		stripped := strings.TrimFunc(f, unicode.IsPunct)
		if len([]rune(stripped)) <= 1 {
			continue
		}
		words = append(words, stripped)
	}
	return words
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// capsDifferential reports whether some, but not all, words are shouted.
func capsDifferential(words []string) bool {
	upper := 0
	for _, w := range words {
		if isUpper(w) {
			upper++
		}
	}
	return upper > 0 && upper < len(words)
}

func boosterScalar(word string, valence float64, capDiff bool) float64 {
	b, ok := boosters[strings.ToLower(word)]
	if !ok {
		return 0
	}
	if valence < 0 {
		b = -b
	}
	if capDiff && isUpper(word) {
		b += math.Copysign(capsIncr, b)
	}
	return b
}

func isNegation(word string) bool {
	lower := strings.ToLower(word)
	if strings.Contains(lower, "n't") {
		return true
	}
	return negations[strings.ReplaceAll(lower, "'", "")]
}

// applyButRule damps valence before a contrastive "but" and amplifies it after.
func applyButRule(words []string, valences []float64) {
	for i, w := range words {
		if strings.ToLower(w) != "but" {
			continue
		}
		for j := range valences {
			switch {
			case j < i:
				valences[j] *= 0.5
			case j > i:
				valences[j] *= 1.5
			}
		}
		return
	}
}

func punctuationEmphasis(text string) float64 {
	ep := float64(min(strings.Count(text, "!"), 4)) * 0.292
	qm := 0.0
	if n := strings.Count(text, "?"); n > 1 {
		if n <= 3 {
			qm = float64(n) * 0.18
		} else {
			qm = 0.96
		}
	}
	return ep + qm
}

func summarize(valences []float64, emphasis float64) domain.Sentiment {
	var sum, pos, neg, neu float64
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}

	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}
	compound := math.Max(-1, math.Min(1, sum/math.Sqrt(sum*sum+normAlpha)))

	if pos > math.Abs(neg) {
		pos += emphasis
	} else if pos < math.Abs(neg) {
		neg -= emphasis
	}
	total := pos + math.Abs(neg) + neu

	return domain.Sentiment{
		Negative: round(math.Abs(neg/total), 3),
		Neutral:  round(math.Abs(neu/total), 3),
		Positive: round(math.Abs(pos/total), 3),
		Compound: round(compound, 4),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
