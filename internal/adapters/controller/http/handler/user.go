package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/controller/http/dto"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	domain "github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50

type UserService interface {
	Me(ctx context.Context, actor entity.Actor) (*entity.User, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, name, bio string) (*entity.User, error)
	ListUsers(ctx context.Context, actor entity.Actor, search string, offset, limit int) ([]entity.User, error)
	ChangeRole(ctx context.Context, actor entity.Actor, userID string, role entity.Role) error
}

type MyClubsService interface {
	MyClubs(ctx context.Context, actor entity.Actor) ([]entity.Club, error)
}

type MyEventsService interface {
	MyEvents(ctx context.Context, actor entity.Actor) ([]domain.UserEvent, error)
	MyCalendar(ctx context.Context, actor entity.Actor) ([]byte, error)
}

type DashboardService interface {
	UserDashboard(ctx context.Context, actor entity.Actor) (*domain.UserDashboard, error)
}

type UserHandler struct {
	users      UserService
	clubs      MyClubsService
	events     MyEventsService
	dashboards DashboardService
}

func NewUserHandler(users UserService, clubs MyClubsService, events MyEventsService, dashboards DashboardService) *UserHandler {
	return &UserHandler{
		users:      users,
		clubs:      clubs,
		events:     events,
		dashboards: dashboards,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.Actor(c), req.Name, req.Bio)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.UserDashboard(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDashboardResponse(dashboard))
}

func (h *UserHandler) Clubs(c *gin.Context) {
	clubs, err := h.clubs.MyClubs(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBriefClubResponses(clubs))
}

func (h *UserHandler) Events(c *gin.Context) {
	events, err := h.events.MyEvents(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserEventResponses(events, time.Now()))
}

func (h *UserHandler) Calendar(c *gin.Context) {
	data, err := h.events.MyCalendar(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="events.ics"`)
	c.DataFromReader(http.StatusOK, int64(len(data)), "text/calendar; charset=utf-8", bytes.NewReader(data), nil)
}

// List is the admin user search. It pages with offset and limit query
// parameters.
func (h *UserHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}

	users, err := h.users.ListUsers(c.Request.Context(), middleware.Actor(c), c.Query("search"), offset, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.users.ChangeRole(c.Request.Context(), middleware.Actor(c), c.Param("id"), entity.Role(req.Role))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
