package handler

import (
	"net/http"

	"logi-events/internal/auth"
	"logi-events/internal/model"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Guard              *auth.Guard
	AllowedOrigins     []string
	EventHandler       *EventHandler
	ReservationHandler *ReservationHandler
	DeletionHandler    *DeletionHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), AccessLog(), CORS(deps.AllowedOrigins))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	requireAuth := deps.Guard.RequireAuth()
	requireAdmin := auth.RequireRole(model.RoleAdmin, model.RoleGod)

	router := r.Group("/event")
	{
		router.GET("", deps.EventHandler.List)
		router.GET("/:eventId", deps.EventHandler.GetByID)
		router.GET("/user/:userId", requireAuth, deps.EventHandler.ListForUser)

		router.POST("", requireAuth, requireAdmin, deps.EventHandler.Create)
		router.PUT("/:eventId", requireAuth, requireAdmin, deps.EventHandler.Update)

		router.POST("/:eventId/reserve", requireAuth, deps.ReservationHandler.Reserve)
		router.POST("/:eventId/confirm-reservation", requireAuth, deps.ReservationHandler.ConfirmReservation)
		router.POST("/:eventId/unattend", requireAuth, deps.ReservationHandler.Unattend)

		router.DELETE("/:eventId", requireAuth, requireAdmin, deps.DeletionHandler.RequestDeletion)
		router.POST("/:eventId/confirm-delete", requireAuth, requireAdmin, deps.DeletionHandler.ConfirmDeletion)
	}
}
