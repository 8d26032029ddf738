package handler

import (
	"context"
	"net/http"

	"github.com/Badsnus/campus-events/internal/adapters/controller/http/dto"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	domain "github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

type StatsService interface {
	ClubDashboard(ctx context.Context, actor entity.Actor) (*domain.ClubDashboard, error)
	AdminOverview(ctx context.Context, actor entity.Actor) (*domain.AdminOverview, error)
	ClubStats(ctx context.Context, actor entity.Actor) ([]domain.ClubStats, error)
}

type StatsHandler struct {
	stats StatsService
}

func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) ClubDashboard(c *gin.Context) {
	dashboard, err := h.stats.ClubDashboard(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClubDashboardResponse(dashboard))
}

func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.stats.AdminOverview(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdminOverviewResponse(*overview))
}

func (h *StatsHandler) ClubStats(c *gin.Context) {
	stats, err := h.stats.ClubStats(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClubStatsResponses(stats))
}
