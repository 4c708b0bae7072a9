package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is returned when the source sheet cannot be downloaded
	ErrFetchFailed = errors.New("fetch failed")
	// ErrSchemaMismatch is returned when the header row does not match the column layout
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrSinkNotConfigured is returned when a notification cannot be sent for lack of settings
	ErrSinkNotConfigured = errors.New("notification sink not configured")
)

// InvalidReportKindError is returned for an unknown report kind
type InvalidReportKindError struct {
	Kind string
}

func (e *InvalidReportKindError) Error() string {
	return fmt.Sprintf("invalid report kind %q (want expired, urgent or both)", e.Kind)
}
