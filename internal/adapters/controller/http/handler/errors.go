package handler

import (
	"errors"
	"net/http"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/pkg/logger"
	"github.com/gin-gonic/gin"
)

var conflicts = []error{
	errorz.ErrAlreadyMember,
	errorz.ErrMembershipRejected,
	errorz.ErrAlreadyRegistered,
	errorz.ErrInvalidTransition,
	errorz.ErrCapacityExceeded,
	errorz.ErrEmailTaken,
	errorz.ErrClubExists,
	errorz.ErrTelegramTaken,
	errorz.ErrRoleMismatch,
}

var unprocessable = []error{
	errorz.ErrEventNotApproved,
	errorz.ErrEventFinished,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RespondError maps a domain error onto the status code and JSON body of the
// API and aborts the request.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *errorz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": validationErr.Fields})
	case errors.Is(err, errorz.ErrSessionExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "session_expired"})
	case errors.Is(err, errorz.ErrUnauthenticated), errors.Is(err, errorz.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errorz.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errorz.ErrNotFound), errors.Is(err, errorz.ErrNotRegistered):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isAny(err, conflicts):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isAny(err, unprocessable):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, errorz.ErrInvalidInput),
		errors.Is(err, errorz.ErrInvalidCode),
		errors.Is(err, errorz.ErrInvalidTicket):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Named("http").Errorf("unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
