package domain

import (
	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
)

// Messages returned to clients for rejected submissions.
const (
	MsgMissingFields   = "ReviewBody and Location are required"
	MsgInvalidLocation = "Invalid location"
)

// ErrMissingFields returns the error for a submission lacking ReviewBody or Location.
func ErrMissingFields(fields map[string]string) *apperrors.AppError {
	return apperrors.MissingField(MsgMissingFields, fields)
}

// ErrInvalidLocation returns the error for a submission naming a location that
// is not already present in the dataset.
func ErrInvalidLocation() *apperrors.AppError {
	return apperrors.UnknownLocation(MsgInvalidLocation)
}
