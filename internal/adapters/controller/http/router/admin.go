package router

import (
	"github.com/gin-gonic/gin"
)

func AdminRouter(rg *gin.RouterGroup, h Handlers) {
	rg.GET("/overview", h.Stats.Overview)
	rg.GET("/clubs/stats", h.Stats.ClubStats)
	rg.POST("/clubs", h.Clubs.Create)
	rg.DELETE("/clubs/:id", h.Clubs.Delete)
	rg.POST("/clubs/:id/admins", h.Clubs.AppointAdmin)
	rg.DELETE("/clubs/:id/admins/:userId", h.Clubs.RemoveAdmin)

	rg.GET("/events/pending", h.Event.Pending)

	rg.GET("/users", h.Users.List)
	rg.PATCH("/users/:id/role", h.Users.ChangeRole)
}
