// services/errors.go
package services

import "errors"

// Business-rule failures surfaced to controllers. Anything not in this set
// is treated as a storage failure: logged, and reported generically.
var (
	ErrBikeNotFound        = errors.New("bike not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUnavailable         = errors.New("no bike available for the requested dates")
	ErrInvalidStatus       = errors.New("unrecognized reservation status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrBikeHasReservations = errors.New("bike still has reservations")
)

// ValidationError reports a bad input field or a broken booking rule. The
// message is safe to show to the end user.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}
