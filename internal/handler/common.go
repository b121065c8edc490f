package handler

import (
	"errors"
	"fmt"
	"net/http"

	"logi-events/internal/service"
	apperrors "logi-events/pkg/app_errors"
	"logi-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func respondBindError(c *gin.Context, err error) {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationMessage(fe),
			"field": fe.Field(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request format",
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// eventIDParam 解析路徑上的 eventId，失敗時直接回應 400
func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id", "field": "eventId"})
		return uuid.Nil, false
	}
	return id, true
}

// handleError 錯誤對應 HTTP 狀態碼
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var validationErr *apperrors.ValidationError
	var capacityErr *apperrors.CapacityError

	switch {
	case errors.As(err, &validationErr):
		log.Warn("Validation failed")
		body := gin.H{"error": validationErr.Message}
		if validationErr.Field != "" {
			body["field"] = validationErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &capacityErr):
		log.Warn("Capacity exceeded")
		c.JSON(http.StatusBadRequest, gin.H{"error": capacityErr.Error()})
	case errors.Is(err, apperrors.ErrInvalidOTP):
		// 錯誤碼與過期碼對外不區分
		log.Warn("Invalid OTP code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP code"})
	case errors.Is(err, apperrors.ErrCapacityBelowReserved):
		log.Warn("Capacity below reserved")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity cannot be lower than confirmed reservations"})
	case errors.Is(err, apperrors.ErrEventNotReservable):
		log.Warn("Event not reservable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is not open for reservations"})
	case errors.Is(err, apperrors.ErrNotAttending):
		log.Warn("Not attending")
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not attending this event"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrTooManyRequests):
		log.Warn("Too many requests")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		if service.IsClientError(err) {
			log.Warn("Bad request")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
