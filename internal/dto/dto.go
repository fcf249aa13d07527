package dto

import (
	"time"

	"github.com/acalderon/project-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	Members     []UserDTO `json:"members,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            models.TaskStatus `json:"status"`
	ProjectID         uint64            `json:"project_id"`
	CreatorID         uint64            `json:"creator_id"`
	AssignedTo        *uint64           `json:"assigned_to"`
	DueDate           *time.Time        `json:"due_date"`
	CompletedAt       *time.Time        `json:"completed_at"`
	CompletedBy       *uint64           `json:"completed_by"`
	CompletionComment *string           `json:"completion_comment"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Creator           *UserDTO          `json:"creator,omitempty"`
	AssignedUser      *UserDTO          `json:"assigned_user,omitempty"`
	CompletedByUser   *UserDTO          `json:"completed_by_user,omitempty"`
}

// AdminUserDTO represents a user row in the admin listing
type AdminUserDTO struct {
	UserDTO
	CreatedAt     time.Time `json:"created_at"`
	ProjectsCount int64     `json:"projects_count"`
	TasksCount    int64     `json:"tasks_count"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		IsActive: user.IsActive,
		IsAdmin:  user.IsAdmin(),
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectDetailDTO converts a project with its members to ProjectDTO
func ToProjectDetailDTO(project models.Project, members []models.ProjectMember) ProjectDTO {
	dto := ToProjectDTO(project)
	dto.Members = make([]UserDTO, len(members))
	for i, member := range members {
		dto.Members[i] = ToUserDTO(member.User)
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		ProjectID:         task.ProjectID,
		CreatorID:         task.CreatorID,
		AssignedTo:        task.AssignedTo,
		DueDate:           task.DueDate,
		CompletedAt:       task.CompletedAt,
		CompletedBy:       task.CompletedBy,
		CompletionComment: task.CompletionComment,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	if task.AssignedUser != nil && task.AssignedUser.ID != 0 {
		assigned := ToUserDTO(*task.AssignedUser)
		dto.AssignedUser = &assigned
	}
	if task.CompletedByUser != nil && task.CompletedByUser.ID != 0 {
		completedBy := ToUserDTO(*task.CompletedByUser)
		dto.CompletedByUser = &completedBy
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
