package router

import (
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/handler"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/gin-gonic/gin"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/login", h.Login)
	rg.POST("/password/reset-code", h.RequestResetCode)
	rg.POST("/password/reset", h.ResetPassword)

	authorized := rg.Group("", middleware.RequireAuth(handler.RespondError))
	authorized.POST("/logout", h.Logout)
	authorized.PUT("/password", h.ChangePassword)
}

func MeRouter(rg *gin.RouterGroup, h *handler.UserHandler, auth *handler.AuthHandler) {
	rg.GET("", h.Me)
	rg.PATCH("", h.UpdateProfile)
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/clubs", h.Clubs)
	rg.GET("/events", h.Events)
	rg.GET("/events.ics", h.Calendar)
	rg.POST("/telegram/code", auth.TelegramCode)
}
