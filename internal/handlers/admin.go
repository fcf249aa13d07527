package handlers

import (
	"net/http"

	"github.com/acalderon/project-management-api/internal/dto"
	apierrors "github.com/acalderon/project-management-api/internal/errors"
	"github.com/acalderon/project-management-api/internal/middleware"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler coordinates the administrative HTTP handlers. The whole group
// sits behind the RequireAdmin middleware.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GetStats returns the dashboard aggregates
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListUsers returns all users with project and task counts
func (h *AdminHandler) ListUsers(c *gin.Context) {
	overviews, err := h.adminService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	users := make([]dto.AdminUserDTO, len(overviews))
	for i, overview := range overviews {
		users[i] = dto.AdminUserDTO{
			UserDTO:       dto.ToUserDTO(overview.User),
			CreatedAt:     overview.User.CreatedAt,
			ProjectsCount: overview.ProjectsCount,
			TasksCount:    overview.TasksCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ToggleUserActive flips a user's active flag
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.ToggleUserActive(actor, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(actor, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
