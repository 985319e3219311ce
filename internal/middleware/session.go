package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
	"github.com/noah-isme/facegaze-attendance-api/pkg/response"
)

// Gin context keys populated by the session middleware.
const (
	ContextIdentityKey = "sessionIdentity"
	ContextLectureKey  = "lectureID"
)

// CallerResolver turns a session token into the lecturer identity behind it.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*models.Identity, error)
}

var errLoginRequired = appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Please log in.")

// Session requires a live session in the given header and scopes the request to its lecture.
func Session(resolver CallerResolver, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		if token == "" {
			response.Error(c, errLoginRequired)
			c.Abort()
			return
		}

		identity, err := resolver.ResolveCaller(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// LectureScope resolves which lecture a roster request acts on. A valid session wins; otherwise the
// configured default lecture is used unless requireSession is set. With neither, the request is
// rejected.
func LectureScope(resolver CallerResolver, header, defaultLectureID string, requireSession bool) gin.HandlerFunc {
	defaultLectureID = strings.TrimSpace(defaultLectureID)
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		if token != "" {
			identity, err := resolver.ResolveCaller(c.Request.Context(), token)
			if err == nil {
				setIdentity(c, identity)
				c.Next()
				return
			}
			if !errors.Is(err, appErrors.ErrUnauthorized) {
				response.Error(c, err)
				c.Abort()
				return
			}
		}

		if requireSession || defaultLectureID == "" {
			response.Error(c, errLoginRequired)
			c.Abort()
			return
		}

		c.Set(ContextLectureKey, defaultLectureID)
		c.Next()
	}
}

// IdentityFrom returns the session identity attached to the request, if any.
func IdentityFrom(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// LectureFrom returns the lecture the request is scoped to.
func LectureFrom(c *gin.Context) string {
	return c.GetString(ContextLectureKey)
}

func setIdentity(c *gin.Context, identity *models.Identity) {
	c.Set(ContextIdentityKey, identity)
	c.Set(ContextLectureKey, identity.LectureID)
}
