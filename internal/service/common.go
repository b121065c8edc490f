package service

import (
	"errors"

	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var clientErrors = []error{
	apperrors.ErrInvalidInput,
	apperrors.ErrEventNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrTicketNotFound,
	apperrors.ErrUnauthorized,
	apperrors.ErrForbidden,
	apperrors.ErrCapacityExceeded,
	apperrors.ErrCapacityBelowReserved,
	apperrors.ErrEventNotReservable,
	apperrors.ErrNotAttending,
	apperrors.ErrInvalidOTP,
	apperrors.ErrTooManyRequests,
}

// IsClientError 呼叫端造成的錯誤（對應 4xx）
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func logFailure(log *zap.Logger, operation string, eventID uuid.UUID, err error) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("event_id", eventID.String()),
		zap.Error(err),
	}
	if IsClientError(err) {
		log.Warn("operation rejected", fields...)
		return
	}
	log.Error("operation failed", fields...)
}
