package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrCapacityExceeded      = errors.New("capacity exceeded")
	ErrCapacityBelowReserved = errors.New("capacity cannot be lower than confirmed reservations")
	ErrEventNotReservable    = errors.New("event is not open for reservations")
	ErrNotAttending          = errors.New("you are not attending this event")

	ErrInvalidOTP      = errors.New("invalid OTP code")
	ErrOTPExpired      = fmt.Errorf("%w: code expired", ErrInvalidOTP)
	ErrTooManyRequests = errors.New("too many requests")
)

// ValidationError 欄位層級的輸入錯誤
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// CapacityError 剩餘名額不足
type CapacityError struct {
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough spots available: requested %d, only %d left", e.Requested, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Shortfall 缺少的名額數
func (e *CapacityError) Shortfall() int {
	return e.Requested - e.Available
}
