package handler

import (
	"net/http"

	"logi-events/internal/auth"
	"logi-events/internal/model"
	"logi-events/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	var req model.ReserveRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.RequestReservation(c, identity.UserID, eventID, req); err != nil {
		handleError(c, err, "Reserve")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Verification code sent. Please confirm your reservation.",
	})
}

func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	var req model.ConfirmReservationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.ConfirmReservation(c, identity.UserID, eventID, req)
	if err != nil {
		handleError(c, err, "ConfirmReservation")
		return
	}
	c.JSON(http.StatusOK, model.ReservationResponse{
		Message: "Reservation confirmed",
		Ticket:  ticket,
		Total:   ticket.TotalPrice(),
	})
}

func (h *ReservationHandler) Unattend(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.service.CancelReservation(c, identity.UserID, eventID)
	if err != nil {
		handleError(c, err, "Unattend")
		return
	}
	c.JSON(http.StatusOK, event)
}
