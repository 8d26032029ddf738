package middleware

import (
	"context"
	"strings"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

const (
	actorKey     = "actor"
	sessionIDKey = "session_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.Actor, string, error)
}

// ErrorResponder writes err as the JSON error body and aborts the request.
type ErrorResponder func(c *gin.Context, err error)

// Authenticate resolves the bearer token, if any, into the actor of the
// request. Requests without a token continue anonymously, a bad token is
// rejected.
func Authenticate(auth Authenticator, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		actor, sessionID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respond(c, err)
			return
		}

		c.Set(actorKey, actor)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Actor(c).IsAuthenticated() {
			respond(c, errorz.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

// RequireRole lets through site admins and the given roles.
func RequireRole(respond ErrorResponder, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if !actor.IsAuthenticated() {
			respond(c, errorz.ErrUnauthenticated)
			return
		}
		if actor.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		respond(c, errorz.ErrForbidden)
	}
}

// Actor returns the authenticated actor, or the zero Actor for anonymous
// requests.
func Actor(c *gin.Context) entity.Actor {
	actor, _ := c.Get(actorKey)
	a, _ := actor.(entity.Actor)
	return a
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return header, true
	}
	return strings.TrimSpace(token), true
}
