package handler

import (
	"net/http"

	"logi-events/internal/auth"
	"logi-events/internal/model"
	"logi-events/internal/service"

	"github.com/gin-gonic/gin"
)

type DeletionHandler struct {
	service service.DeletionService
}

func NewDeletionHandler(service service.DeletionService) *DeletionHandler {
	return &DeletionHandler{service: service}
}

func (h *DeletionHandler) RequestDeletion(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if err := h.service.RequestDeletion(c, identity.UserID, eventID); err != nil {
		handleError(c, err, "RequestDeletion")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Verification codes sent, please confirm to proceed.",
	})
}

func (h *DeletionHandler) ConfirmDeletion(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	var req model.ConfirmDeletionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.ConfirmDeletion(c, identity.UserID, eventID, req.Code); err != nil {
		handleError(c, err, "ConfirmDeletion")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Event deleted successfully"})
}
