package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("session expired or invalid")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrSessionUnavailable = errors.New("session store unavailable")
	ErrSubmitInFlight     = errors.New("a submission is already in progress")
)

// ErrValidation is the root of every local validation failure. These are
// raised before any network call is made.
var ErrValidation = errors.New("validation failed")

var (
	ErrTenantMissing        = fmt.Errorf("%w: no laundry resolved for this session", ErrValidation)
	ErrNoServices           = fmt.Errorf("%w: at least one service must be selected", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid order status", ErrValidation)
	ErrInvalidPaymentStatus = fmt.Errorf("%w: invalid payment status", ErrValidation)
	ErrMissingClient        = fmt.Errorf("%w: client phone and name are required", ErrValidation)
	ErrMissingOrderID       = fmt.Errorf("%w: order id is required", ErrValidation)
)

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
