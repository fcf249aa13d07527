package repository

import (
	"github.com/acalderon/project-management-api/internal/models"
)

// UserRepository defines the interface for user and role data access
type UserRepository interface {
	// Create creates a new user with its role links
	Create(user *models.User) error

	// FindByID finds a user by ID with roles preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email with roles preloaded
	FindByEmail(email string) (*models.User, error)

	// List returns all users with roles preloaded, newest first
	List() ([]models.User, error)

	// Count returns the total number of users
	Count() (int64, error)

	// CountAdmins returns how many users hold the admin role
	CountAdmins() (int64, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(userIDs []uint64) (int64, error)

	// CountOwnedProjects returns how many projects the user owns
	CountOwnedProjects(userID uint64) (int64, error)

	// CountCreatedTasks returns how many tasks the user created
	CountCreatedTasks(userID uint64) (int64, error)

	// CountAssignedTasks returns how many tasks are assigned to the user
	CountAssignedTasks(userID uint64) (int64, error)

	// SetActive updates the user's active flag
	SetActive(userID uint64, active bool) error

	// Delete removes a user along with role links and project memberships
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwnerMembership creates a project and joins the owner as a
	// member within a single transaction
	CreateWithOwnerMembership(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListVisible returns projects the actor may see, newest first.
	// Admins see every project; everyone else sees owned plus member projects.
	ListVisible(actorID uint64, admin bool, page, pageSize int) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// DeleteWithMembers removes a project and its membership rows atomically
	DeleteWithMembers(id uint64) error

	// IsMember reports whether the user is an explicit member of the project
	IsMember(projectID, userID uint64) (bool, error)

	// SyncMembers replaces the project's entire membership set atomically
	SyncMembers(projectID uint64, userIDs []uint64) error

	// ListMembers lists all members of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// TaskCount returns the number of tasks in the project
	TaskCount(projectID uint64) (int64, error)

	// Count returns the total number of projects
	Count() (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject retrieves a project's tasks, newest first, paginated
	ListByProject(projectID uint64, page, pageSize int) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error

	// CountByStatuses counts tasks whose status is in the given set
	CountByStatuses(statuses []models.TaskStatus) (int64, error)
}
