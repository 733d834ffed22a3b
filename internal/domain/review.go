package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the fixed wire and dataset format of Review.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Review represents a single customer review held by the service.
type Review struct {
	ReviewID   string     `json:"ReviewId"`
	ReviewBody string     `json:"ReviewBody"`
	Location   string     `json:"Location"`
	Timestamp  Timestamp  `json:"Timestamp"`
	Sentiment  *Sentiment `json:"sentiment,omitempty"`
}

// Sentiment is the polarity score attached to a review for a single response.
// Compound is normalized to [-1, 1] and is the ranking key.
type Sentiment struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// Timestamp is a time.Time that encodes as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds, the resolution of the wire format.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// ParseTimestamp parses a value in TimestampLayout.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

// String returns the timestamp in TimestampLayout.
func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// Date returns the calendar date of the timestamp at midnight UTC, which makes
// dates from different sources directly comparable.
func (t Timestamp) Date() time.Time {
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WithSentiment returns a copy of r carrying s. The receiver is left untouched
// so that stored records never hold a score.
func (r Review) WithSentiment(s Sentiment) Review {
	r.Sentiment = &s
	return r
}
