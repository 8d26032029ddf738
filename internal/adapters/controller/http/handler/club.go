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

type ClubService interface {
	Create(ctx context.Context, actor entity.Actor, name, description, category string) (*entity.Club, error)
	Delete(ctx context.Context, actor entity.Actor, clubID string) error
	Get(ctx context.Context, clubID string) (*domain.Club, error)
	List(ctx context.Context, search, category string) ([]domain.Club, error)
}

type MembershipService interface {
	RequestJoin(ctx context.Context, actor entity.Actor, clubID string) (*entity.ClubMembership, error)
	Decide(ctx context.Context, actor entity.Actor, membershipID string, outcome string) (*entity.ClubMembership, error)
	AppointAdmin(ctx context.Context, actor entity.Actor, clubID, userID string) (*entity.ClubMembership, error)
	RemoveAdmin(ctx context.Context, actor entity.Actor, clubID, userID string) error
	ListPending(ctx context.Context, actor entity.Actor, clubID string) ([]domain.ClubMember, error)
	ListMembers(ctx context.Context, clubID, search string) ([]domain.ClubMember, error)
	Status(ctx context.Context, actor entity.Actor, clubID string) (*entity.ClubMembership, error)
}

type ClubHandler struct {
	clubs       ClubService
	memberships MembershipService
}

func NewClubHandler(clubs ClubService, memberships MembershipService) *ClubHandler {
	return &ClubHandler{
		clubs:       clubs,
		memberships: memberships,
	}
}

func (h *ClubHandler) List(c *gin.Context) {
	clubs, err := h.clubs.List(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClubResponses(clubs))
}

func (h *ClubHandler) Get(c *gin.Context) {
	club, err := h.clubs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClubResponse(*club))
}

func (h *ClubHandler) Create(c *gin.Context) {
	var req dto.CreateClubRequest
	if !bindJSON(c, &req) {
		return
	}

	club, err := h.clubs.Create(c.Request.Context(), middleware.Actor(c), req.Name, req.Description, req.Category)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToClubResponse(domain.Club{Club: *club}))
}

func (h *ClubHandler) Delete(c *gin.Context) {
	if err := h.clubs.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClubHandler) Join(c *gin.Context) {
	membership, err := h.memberships.RequestJoin(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMembershipResponse(membership))
}

// Membership returns the membership of the caller in the club, or null.
func (h *ClubHandler) Membership(c *gin.Context) {
	membership, err := h.memberships.Status(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if membership == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}

func (h *ClubHandler) Members(c *gin.Context) {
	members, err := h.memberships.ListMembers(c.Request.Context(), c.Param("id"), c.Query("search"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

func (h *ClubHandler) Requests(c *gin.Context) {
	requests, err := h.memberships.ListPending(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponses(requests))
}

func (h *ClubHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.memberships.Decide(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Outcome)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}

func (h *ClubHandler) AppointAdmin(c *gin.Context) {
	var req dto.ClubAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.memberships.AppointAdmin(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}

func (h *ClubHandler) RemoveAdmin(c *gin.Context) {
	err := h.memberships.RemoveAdmin(c.Request.Context(), middleware.Actor(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
