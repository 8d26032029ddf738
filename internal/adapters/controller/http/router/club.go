package router

import (
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/handler"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/gin-gonic/gin"
)

func ClubRouter(rg *gin.RouterGroup, h *handler.ClubHandler, events *handler.EventHandler) {
	rg.GET("/clubs", h.List)
	rg.GET("/clubs/:id", h.Get)

	authorized := rg.Group("", middleware.RequireAuth(handler.RespondError))
	authorized.POST("/clubs/:id/join", h.Join)
	authorized.GET("/clubs/:id/membership", h.Membership)
	authorized.GET("/clubs/:id/members", h.Members)
	authorized.GET("/clubs/:id/requests", h.Requests)
	authorized.POST("/clubs/:id/events", events.Submit)
	authorized.POST("/memberships/:id/decision", h.Decide)
}
