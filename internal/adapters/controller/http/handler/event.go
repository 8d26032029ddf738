package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/controller/http/dto"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	domain "github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EventService interface {
	Submit(ctx context.Context, actor entity.Actor, clubID string, input domain.EventInput) (*entity.Event, error)
	Decide(ctx context.Context, actor entity.Actor, eventID string, outcome string) (*entity.Event, error)
	Get(ctx context.Context, actor entity.Actor, eventID string) (*domain.Event, error)
	ListPending(ctx context.Context, actor entity.Actor) ([]domain.Event, error)
	ListApproved(ctx context.Context, actor entity.Actor, from time.Time, clubID string, limit int) ([]domain.Event, error)
	ListForClubAdmin(ctx context.Context, actor entity.Actor, tab string) ([]domain.Event, error)
}

type ParticipantService interface {
	Register(ctx context.Context, actor entity.Actor, eventID string) (*entity.EventParticipant, error)
	Unregister(ctx context.Context, actor entity.Actor, eventID string) error
	Ticket(ctx context.Context, actor entity.Actor, eventID string) ([]byte, error)
	CheckIn(ctx context.Context, actor entity.Actor, eventID, ticket string) (*entity.EventParticipant, error)
	Participants(ctx context.Context, actor entity.Actor, eventID string) ([]domain.Participant, error)
	ExportParticipants(ctx context.Context, actor entity.Actor, eventID string) (*bytes.Buffer, error)
}

type EventHandler struct {
	events       EventService
	participants ParticipantService
}

func NewEventHandler(events EventService, participants ParticipantService) *EventHandler {
	return &EventHandler{
		events:       events,
		participants: participants,
	}
}

// List returns approved events starting from the from query parameter
// (RFC 3339, defaults to now), optionally of one club.
func (h *EventHandler) List(c *gin.Context) {
	from := time.Now()
	if value := c.Query("from"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			RespondError(c, errorz.Validation("from"))
			return
		}
		from = parsed
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		RespondError(c, errorz.Validation("limit"))
		return
	}

	events, err := h.events.ListApproved(c.Request.Context(), middleware.Actor(c), from, c.Query("club_id"), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponse(*event))
}

func (h *EventHandler) Submit(c *gin.Context) {
	var req dto.SubmitEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.events.Submit(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.ToInput())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(event))
}

func (h *EventHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.events.Decide(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Outcome)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(event))
}

func (h *EventHandler) Pending(c *gin.Context) {
	events, err := h.events.ListPending(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

// ClubAdminEvents lists the events of the caller's clubs. The tab query
// parameter is one of all, upcoming, pending or past.
func (h *EventHandler) ClubAdminEvents(c *gin.Context) {
	events, err := h.events.ListForClubAdmin(c.Request.Context(), middleware.Actor(c), c.Query("tab"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *EventHandler) Register(c *gin.Context) {
	participant, err := h.participants.Register(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRegistrationResponse(participant))
}

func (h *EventHandler) Unregister(c *gin.Context) {
	if err := h.participants.Unregister(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Ticket(c *gin.Context) {
	png, err := h.participants.Ticket(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *EventHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	participant, err := h.participants.CheckIn(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Ticket)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRegistrationResponse(participant))
}

func (h *EventHandler) Participants(c *gin.Context) {
	participants, err := h.participants.Participants(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToParticipantResponses(participants))
}

func (h *EventHandler) ExportParticipants(c *gin.Context) {
	buf, err := h.participants.ExportParticipants(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="participants-%s.xlsx"`, c.Param("id")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
