package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReserve(t *testing.T) {
	userID, eventID := uuid.New(), uuid.New()
	url := fmt.Sprintf("/event/%s/reserve", eventID)
	body := model.ReserveRequest{PhoneNumber: "+1 (555) 000-1111", Quantity: 2}

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("RequestReservation", mock.Anything, userID, eventID, body).Return(nil).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Verification code sent. Please confirm your reservation.", decode(t, w)["message"])
		s.reservations.AssertExpectations(t)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, url, "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.reservations.AssertNumberOfCalls(t, "RequestReservation", 0)
	})

	t.Run("Invalid phone", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser),
			model.ReserveRequest{PhoneNumber: "call me", Quantity: 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "phoneNumber", decode(t, w)["field"])
	})

	t.Run("Missing quantity", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser),
			map[string]string{"phoneNumber": "+15550001111"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "quantity", decode(t, w)["field"])
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), InvalidJSON)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decode(t, w)["error"])
	})

	t.Run("Invalid event id", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, "/event/not-a-uuid/reserve", s.token(t, userID, model.RoleUser), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not enough spots", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("RequestReservation", mock.Anything, userID, eventID, body).
			Return(&apperrors.CapacityError{Requested: 2, Available: 1}).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "not enough spots available: requested 2, only 1 left", decode(t, w)["error"])
	})

	t.Run("Event not found", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("RequestReservation", mock.Anything, userID, eventID, body).
			Return(apperrors.ErrEventNotFound).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Too many requests", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("RequestReservation", mock.Anything, userID, eventID, body).
			Return(fmt.Errorf("%w: try again in 30s", apperrors.ErrTooManyRequests)).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestConfirmReservation(t *testing.T) {
	userID, eventID := uuid.New(), uuid.New()
	url := fmt.Sprintf("/event/%s/confirm-reservation", eventID)
	body := model.ConfirmReservationRequest{
		PhoneNumber: "+15550001111",
		Code:        "QWERTY",
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		Quantity:    2,
	}

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("ConfirmReservation", mock.Anything, userID, eventID, body).Return(&model.Ticket{
			ID: uuid.New(), EventID: eventID, UserID: userID, UnitPrice: 12.5, Quantity: 2,
			Status: model.TicketStatusActive,
		}, nil).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "Reservation confirmed", resp["message"])
		assert.Equal(t, 25.0, resp["total"])
	})

	t.Run("Wrong or expired code", func(t *testing.T) {
		for _, err := range []error{apperrors.ErrInvalidOTP, apperrors.ErrOTPExpired} {
			s := setupTestRouter()
			s.reservations.On("ConfirmReservation", mock.Anything, userID, eventID, body).Return(nil, err).Once()

			w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid OTP code", decode(t, w)["error"])
		}
	})

	t.Run("Invalid email", func(t *testing.T) {
		s := setupTestRouter()
		bad := body
		bad.Email = "nope"

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), bad)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "email", decode(t, w)["field"])
		s.reservations.AssertNumberOfCalls(t, "ConfirmReservation", 0)
	})
}

func TestUnattend(t *testing.T) {
	userID, eventID := uuid.New(), uuid.New()
	url := fmt.Sprintf("/event/%s/unattend", eventID)

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("CancelReservation", mock.Anything, userID, eventID).
			Return(&model.Event{ID: eventID, Capacity: 10, AvailableSpots: 10}, nil).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 10.0, decode(t, w)["availableSpots"])
	})

	t.Run("Not attending", func(t *testing.T) {
		s := setupTestRouter()
		s.reservations.On("CancelReservation", mock.Anything, userID, eventID).
			Return(nil, apperrors.ErrNotAttending).Once()

		w := s.do(http.MethodPost, url, s.token(t, userID, model.RoleUser), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
