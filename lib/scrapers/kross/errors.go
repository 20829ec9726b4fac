package kross

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means the client is missing or has an invalid tenant or config.
	ErrConfiguration = errors.New("kross: configuration error")
	// ErrLogin means login failed, or a request was attempted before login.
	ErrLogin = errors.New("kross: login error")

	ErrUnsupportedOperator       = errors.New("kross: unsupported operator")
	ErrUnsupportedFilterField    = errors.New("kross: unsupported filter field")
	ErrUnrecognizedOperatorToken = errors.New("kross: unrecognized operator token")
	ErrUnknownField              = errors.New("kross: unknown field")
	ErrInvalidFilter             = errors.New("kross: invalid filter expression")

	ErrTableNotFound = errors.New("kross: reservations table not found")
	ErrNoHeaders     = errors.New("kross: no headers found in reservations table")
)

// ReservationsError wraps any failure that happens while fetching and
// scraping reservations, Body holds the raw response if one was received.
type ReservationsError struct {
	Err        error
	StatusCode int
	Body       string
}

func (e *ReservationsError) Error() string {
	return fmt.Sprintf("kross: failed to get reservations: %s", e.Err.Error())
}

func (e *ReservationsError) Unwrap() error {
	return e.Err
}
