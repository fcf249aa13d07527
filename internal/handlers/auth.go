package handlers

import (
	"errors"
	"net/http"

	"github.com/acalderon/project-management-api/internal/constants"
	"github.com/acalderon/project-management-api/internal/dto"
	apierrors "github.com/acalderon/project-management-api/internal/errors"
	"github.com/acalderon/project-management-api/internal/middleware"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			apierrors.Conflict(c, "Email already registered")
			return
		}
		respondServiceError(c, err)
		return
	}

	h.startSession(c, user.ID)

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			apierrors.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrAccountDeactivated):
			apierrors.Forbidden(c, "Account is deactivated")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	h.startSession(c, user.ID)

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.Unauthorized(c, "")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint64) {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	// Session save failure is not fatal for the response; the user simply
	// has to log in again.
	_ = session.Save()
}
