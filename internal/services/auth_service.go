package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acalderon/project-management-api/internal/constants"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	roleRepo RoleFinder
}

// RoleFinder resolves role records by slug, used when assigning the default
// role at signup.
type RoleFinder interface {
	FindBySlug(slug string) (*models.Role, error)
}

// GormRoleFinder is a GORM implementation of RoleFinder.
type GormRoleFinder struct {
	db *gorm.DB
}

// NewRoleFinder creates a new RoleFinder.
func NewRoleFinder(db *gorm.DB) RoleFinder {
	return &GormRoleFinder{db: db}
}

// FindBySlug finds a role by its slug.
func (r *GormRoleFinder) FindBySlug(slug string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("slug = ?", slug).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo RoleFinder) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates a new active user holding the default user role.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	userRole, err := s.roleRepo.FindBySlug(models.RoleSlugUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load default role: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		Roles:        []models.Role{*userRole},
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
// Deactivated accounts are rejected even with a valid password.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
