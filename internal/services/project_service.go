package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ProjectService provides business logic for project and membership
// operations. Every mutation loads the resource, consults the decision
// functions, and only then writes.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents parameters to update a project.
type UpdateProjectInput struct {
	Name        string
	Description string
}

// ListProjects returns the projects visible to the actor, newest first.
func (s *ProjectService) ListProjects(actor authz.Actor, page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListVisible(actor.ID, actor.Admin, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its members, provided the actor may view
// it. Invisible projects are indistinguishable from missing ones.
func (s *ProjectService) GetProject(actor authz.Actor, projectID uint64) (*models.Project, []models.ProjectMember, error) {
	project, _, err := s.loadVisibleProject(actor, projectID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project members: %w", err)
	}

	return project, members, nil
}

// CreateProject creates a project owned by the actor and joins them as a
// member in the same transaction.
func (s *ProjectService) CreateProject(actor authz.Actor, input CreateProjectInput) (*models.Project, error) {
	if !authz.CanCreateProject(actor) {
		return nil, ErrNotPermitted
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actor.ID,
	}

	if err := s.projectRepo.CreateWithOwnerMembership(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject renames or re-describes a project.
func (s *ProjectService) UpdateProject(actor authz.Actor, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, _, err := s.loadVisibleProject(actor, projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateProject(actor, project) {
		return nil, ErrNotPermitted
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}

	project.Name = input.Name
	project.Description = input.Description

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its membership rows. A project that
// still has tasks cannot be deleted, not even by an admin.
func (s *ProjectService) DeleteProject(actor authz.Actor, projectID uint64) error {
	project, _, err := s.loadVisibleProject(actor, projectID)
	if err != nil {
		return err
	}

	if !actor.Admin && actor.ID != project.OwnerID {
		return ErrNotPermitted
	}

	taskCount, err := s.projectRepo.TaskCount(projectID)
	if err != nil {
		return fmt.Errorf("failed to count project tasks: %w", err)
	}

	if !authz.CanDeleteProject(actor, project, taskCount) {
		return NewConflictError("project still has tasks")
	}

	if err := s.projectRepo.DeleteWithMembers(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// SyncMembers replaces the project's entire membership set. Unknown user ids
// fail validation before any row is written.
func (s *ProjectService) SyncMembers(actor authz.Actor, projectID uint64, userIDs []uint64) error {
	project, _, err := s.loadVisibleProject(actor, projectID)
	if err != nil {
		return err
	}

	if !authz.CanUpdateProject(actor, project) {
		return ErrNotPermitted
	}

	unique := uniqueUint64(userIDs)

	count, err := s.userRepo.CountByIDs(unique)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(unique) {
		return NewValidationError("user_ids", "one or more users do not exist")
	}

	if err := s.projectRepo.SyncMembers(projectID, unique); err != nil {
		return fmt.Errorf("failed to sync members: %w", err)
	}

	return nil
}

// loadVisibleProject loads a project and verifies the actor may view it.
// Both a missing project and an invisible one yield NotFoundError.
func (s *ProjectService) loadVisibleProject(actor authz.Actor, projectID uint64) (*models.Project, bool, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, NewNotFoundError("project")
		}
		return nil, false, fmt.Errorf("failed to find project: %w", err)
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check membership: %w", err)
	}

	if !authz.CanViewProject(actor, project, isMember) {
		return nil, false, NewNotFoundError("project")
	}

	return project, isMember, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
