package jma

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAreaCode is returned for codes outside the allow-list. No request is made.
	ErrInvalidAreaCode = errors.New("area code is not in the allow-list")

	// ErrNoData is returned when JMA answers 404 for a forecast document
	ErrNoData = errors.New("no forecast data for area code")
)

// StatusError is a non-success HTTP status other than 404
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("JMA returned status %d for %s", e.StatusCode, e.URL)
}
