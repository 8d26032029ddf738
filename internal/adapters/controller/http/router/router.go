package router

import (
	"net/http"

	"github.com/Badsnus/campus-events/internal/adapters/controller/http/handler"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
	Clubs *handler.ClubHandler
	Event *handler.EventHandler
	Stats *handler.StatsHandler
}

func SetupRoutes(router *gin.Engine, h Handlers, auth middleware.Authenticator, log *types.Logger) {
	router.Use(middleware.Recovery(log), middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(auth, handler.RespondError))
	{
		AuthRouter(v1.Group("/auth"), h.Auth)
		ClubRouter(v1, h.Clubs, h.Event)
		EventRouter(v1.Group("/events"), h.Event)

		authorized := v1.Group("", middleware.RequireAuth(handler.RespondError))
		MeRouter(authorized.Group("/me"), h.Users, h.Auth)

		clubAdmin := v1.Group("/club-admin", middleware.RequireRole(handler.RespondError, entity.RoleClubAdmin))
		ClubAdminRouter(clubAdmin, h.Event, h.Stats)

		admin := v1.Group("/admin", middleware.RequireRole(handler.RespondError))
		AdminRouter(admin, h)
	}
}
