package domain

import (
	"strings"
	"time"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

// DateLayout is the format of the start_date and end_date query parameters.
const DateLayout = "2006-01-02"

// ReviewQuery holds the optional filter predicates of a review listing.
// A nil field places no constraint on the result.
type ReviewQuery struct {
	Location  *string    `json:"location,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ParseReviewQuery builds a ReviewQuery from raw, already percent-decoded
// parameter values. Empty values are treated as absent.
func ParseReviewQuery(location, startDate, endDate string) (*ReviewQuery, error) {
	q := &ReviewQuery{}

	if location != "" {
		q.Location = &location
	}

	if startDate != "" {
		d, err := ParseDate("start_date", startDate)
		if err != nil {
			return nil, err
		}
		q.StartDate = &d
	}

	if endDate != "" {
		d, err := ParseDate("end_date", endDate)
		if err != nil {
			return nil, err
		}
		q.EndDate = &d
	}

	return q, nil
}

// ParseDate parses a YYYY-MM-DD value into a UTC midnight date. The name of the
// parameter is used in the error message.
func ParseDate(name, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.InvalidArgument(name + " must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// Matches reports whether r satisfies every predicate of the query.
func (q *ReviewQuery) Matches(r Review) bool {
	if q == nil {
		return true
	}

	if q.Location != nil && r.Location != *q.Location {
		return false
	}

	if q.StartDate == nil && q.EndDate == nil {
		return true
	}

	day := r.Timestamp.Date()
	if q.StartDate != nil && day.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && day.After(*q.EndDate) {
		return false
	}

	return true
}
