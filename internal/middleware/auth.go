package middleware

import (
	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/constants"
	"github.com/acalderon/project-management-api/internal/database"
	apierrors "github.com/acalderon/project-management-api/internal/errors"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks the session, loads the user with roles, and stores the
// resulting actor in the context. Deactivated accounts are rejected here so
// a stale session cannot outlive a deactivation.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawUserID := session.Get(constants.ContextKeyUserID)

		if rawUserID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, ok := toUint64(rawUserID)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().Preload("Roles").First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsActive {
			apierrors.Forbidden(c, "Account is deactivated")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyActor, authz.Actor{ID: user.ID, Admin: user.IsAdmin()})
		c.Next()
	}
}

// RequireAdmin gates the administrative surface. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !actor.Admin {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) (authz.Actor, bool) {
	raw, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return authz.Actor{}, false
	}

	actor, ok := raw.(authz.Actor)
	return actor, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(raw)
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
