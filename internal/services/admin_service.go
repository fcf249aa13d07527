package services

import (
	"errors"
	"fmt"

	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// AdminService covers the administrative user-management surface and the
// dashboard aggregates. Authorization for this surface is the admin gate at
// the router; the guards here protect structural invariants instead: an
// actor cannot deactivate or delete themselves, the last admin cannot be
// deleted, and neither can a user who still has tasks assigned.
type AdminService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// Stats holds the dashboard aggregates.
type Stats struct {
	TotalProjects      int64 `json:"total_projects"`
	TotalCollaborators int64 `json:"total_collaborators"`
	PendingTasks       int64 `json:"pending_tasks"`
	CompletedTasks     int64 `json:"completed_tasks"`
}

// GetStats returns the dashboard aggregates. Pending counts both pending and
// in-progress tasks.
func (s *AdminService) GetStats() (*Stats, error) {
	totalProjects, err := s.projectRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	pending, err := s.taskRepo.CountByStatuses([]models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	completed, err := s.taskRepo.CountByStatuses([]models.TaskStatus{
		models.TaskStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return &Stats{
		TotalProjects:      totalProjects,
		TotalCollaborators: totalUsers,
		PendingTasks:       pending,
		CompletedTasks:     completed,
	}, nil
}

// UserOverview pairs a user with their project and task counts.
type UserOverview struct {
	User          models.User
	ProjectsCount int64
	TasksCount    int64
}

// ListUsers returns all users, newest first, with per-user counts.
func (s *AdminService) ListUsers() ([]UserOverview, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	overviews := make([]UserOverview, len(users))
	for i, user := range users {
		projects, err := s.userRepo.CountOwnedProjects(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count projects for user %d: %w", user.ID, err)
		}
		tasks, err := s.userRepo.CountCreatedTasks(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks for user %d: %w", user.ID, err)
		}
		overviews[i] = UserOverview{
			User:          user,
			ProjectsCount: projects,
			TasksCount:    tasks,
		}
	}

	return overviews, nil
}

// ToggleUserActive flips a user's active flag. Actors cannot toggle
// themselves.
func (s *AdminService) ToggleUserActive(actor authz.Actor, userID uint64) (*models.User, error) {
	if userID == actor.ID {
		return nil, NewConflictError("you cannot deactivate yourself")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.SetActive(userID, !user.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	user.IsActive = !user.IsActive
	return user, nil
}

// DeleteUser removes a user. Rejected when the target is the actor, the last
// remaining admin, or still has tasks assigned.
func (s *AdminService) DeleteUser(actor authz.Actor, userID uint64) error {
	if userID == actor.ID {
		return NewConflictError("you cannot delete yourself")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("user")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsAdmin() {
		admins, err := s.userRepo.CountAdmins()
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return NewConflictError("cannot delete the last admin")
		}
	}

	assigned, err := s.userRepo.CountAssignedTasks(userID)
	if err != nil {
		return fmt.Errorf("failed to count assigned tasks: %w", err)
	}
	if assigned > 0 {
		return NewConflictError("cannot delete a user with assigned tasks")
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
