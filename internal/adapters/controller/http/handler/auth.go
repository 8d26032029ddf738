package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/controller/http/dto"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/middleware"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/service"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, actor entity.Actor, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	TelegramLinkCode(ctx context.Context, actor entity.Actor) (string, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), middleware.Actor(c), req.OldPassword, req.NewPassword)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestResetCode always answers 202 so the response does not tell which
// emails are registered.
func (h *AuthHandler) RequestResetCode(c *gin.Context) {
	var req dto.ResetCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) TelegramCode(c *gin.Context) {
	code, err := h.auth.TelegramLinkCode(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TelegramCodeResponse{
		Code:      code,
		ExpiresAt: time.Now().Add(service.TelegramLinkTTL).UTC(),
	})
}
