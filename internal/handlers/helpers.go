package handlers

import (
	"errors"

	apierrors "github.com/acalderon/project-management-api/internal/errors"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Authorization failures stay generic; conflicts carry their reason.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		authErr       *services.AuthorizationError
		conflictErr   *services.ConflictError
		notFoundErr   *services.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Message, gin.H{"field": validationErr.Field})
	case errors.As(err, &authErr):
		apierrors.Forbidden(c, "")
	case errors.As(err, &notFoundErr):
		apierrors.NotFound(c, "")
	case errors.As(err, &conflictErr):
		apierrors.Conflict(c, conflictErr.Reason)
	default:
		apierrors.InternalError(c, "")
	}
}
