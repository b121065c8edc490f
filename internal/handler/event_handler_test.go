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

func TestListEvents(t *testing.T) {
	s := setupTestRouter()
	s.events.On("List", mock.Anything).Return([]*model.Event{{ID: uuid.New(), Name: "Go Meetup"}}, nil).Once()

	w := s.do(http.MethodGet, "/event", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go Meetup")
}

func TestGetEvent(t *testing.T) {
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("GetByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, Name: "Go Meetup"}, nil).Once()

		w := s.do(http.MethodGet, fmt.Sprintf("/event/%s", eventID), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("GetByID", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound).Once()

		w := s.do(http.MethodGet, fmt.Sprintf("/event/%s", eventID), "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event not found", decode(t, w)["error"])
	})
}

func TestListEventsForUser(t *testing.T) {
	userID := uuid.New()

	t.Run("Requires token", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodGet, fmt.Sprintf("/event/user/%s", userID), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Own list", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("ListForUser", mock.Anything, userID, userID).Return([]*model.Event{}, nil).Once()

		w := s.do(http.MethodGet, fmt.Sprintf("/event/user/%s", userID), s.token(t, userID, model.RoleUser), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Bad user id", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodGet, "/event/user/abc", s.token(t, userID, model.RoleUser), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	adminID := uuid.New()
	price := 15.0
	body := model.CreateEventRequest{
		Name:        "Go Meetup",
		Date:        "20/11/2026",
		Hour:        "18:30",
		Location:    "Taipei",
		Description: "Monthly meetup",
		Price:       &price,
		Capacity:    50,
		Category:    "tech",
	}

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("Create", mock.Anything, adminID, mock.AnythingOfType("model.CreateEventRequest")).
			Return(&model.Event{ID: uuid.New(), Capacity: 50, AvailableSpots: 50}, nil).Once()

		w := s.do(http.MethodPost, "/event", s.token(t, adminID, model.RoleAdmin), body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Zero capacity", func(t *testing.T) {
		s := setupTestRouter()
		bad := body
		bad.Capacity = 0

		w := s.do(http.MethodPost, "/event", s.token(t, adminID, model.RoleAdmin), bad)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "capacity", decode(t, w)["field"])
	})

	t.Run("Bad date from service", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("Create", mock.Anything, adminID, mock.Anything).
			Return(nil, apperrors.NewValidationError("date", "Invalid date format, expected dd/mm/yyyy")).Once()

		w := s.do(http.MethodPost, "/event", s.token(t, adminID, model.RoleAdmin), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "date", decode(t, w)["field"])
	})

	t.Run("User role", func(t *testing.T) {
		s := setupTestRouter()
		w := s.do(http.MethodPost, "/event", s.token(t, adminID, model.RoleUser), body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	adminID, eventID := uuid.New(), uuid.New()
	url := fmt.Sprintf("/event/%s", eventID)

	t.Run("Capacity below reserved", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("Update", mock.Anything, adminID, eventID, mock.Anything).
			Return(nil, apperrors.ErrCapacityBelowReserved).Once()

		w := s.do(http.MethodPut, url, s.token(t, adminID, model.RoleAdmin), map[string]int{"capacity": 3})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Capacity cannot be lower than confirmed reservations", decode(t, w)["error"])
	})

	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter()
		s.events.On("Update", mock.Anything, adminID, eventID, mock.MatchedBy(func(r model.UpdateEventRequest) bool {
			return r.Capacity != nil && *r.Capacity == 30
		})).Return(&model.Event{ID: eventID, Capacity: 30}, nil).Once()

		w := s.do(http.MethodPut, url, s.token(t, adminID, model.RoleAdmin), map[string]int{"capacity": 30})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
