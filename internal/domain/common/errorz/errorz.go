package errorz

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCode        = errors.New("invalid or expired code")

	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyMember      = errors.New("membership already requested")
	ErrMembershipRejected = errors.New("membership request was rejected")
	ErrAlreadyRegistered  = errors.New("already registered for event")
	ErrNotRegistered      = errors.New("not registered for event")
	ErrCapacityExceeded   = errors.New("event capacity exceeded")
	ErrEventNotApproved   = errors.New("event is not approved")
	ErrEventFinished      = errors.New("event has already started")
	ErrInvalidTicket      = errors.New("invalid ticket")
	ErrEmailTaken         = errors.New("email already registered")
	ErrClubExists         = errors.New("club already exists")
	ErrTelegramTaken      = errors.New("telegram account is linked to another user")
	ErrRoleMismatch       = errors.New("role does not match club admin appointments")
)

// ValidationError lists the request fields that failed validation.
// errors.Is(err, ErrInvalidInput) holds for it.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validation returns nil when no field failed.
func Validation(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
