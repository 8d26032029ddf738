package router

import (
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/handler"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/gin-gonic/gin"
)

func EventRouter(rg *gin.RouterGroup, h *handler.EventHandler) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	authorized := rg.Group("", middleware.RequireAuth(handler.RespondError))
	authorized.POST("/:id/register", h.Register)
	authorized.DELETE("/:id/register", h.Unregister)
	authorized.GET("/:id/ticket", h.Ticket)
	authorized.POST("/:id/checkin", h.CheckIn)
	authorized.GET("/:id/participants", h.Participants)
	authorized.GET("/:id/participants.xlsx", h.ExportParticipants)
	authorized.POST("/:id/decision", h.Decide)
}

func ClubAdminRouter(rg *gin.RouterGroup, h *handler.EventHandler, stats *handler.StatsHandler) {
	rg.GET("/dashboard", stats.ClubDashboard)
	rg.GET("/events", h.ClubAdminEvents)
}
