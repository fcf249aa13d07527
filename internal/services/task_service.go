package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic, including the completion state
// machine. Completion metadata (completed_at, completed_by,
// completion_comment) is kept non-null exactly while the status is completed.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// taskPreloads are the relations loaded for task responses.
var taskPreloads = []string{"Creator", "AssignedUser", "CompletedByUser"}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title             string
	Description       string
	Status            models.TaskStatus
	DueDate           *time.Time
	AssignedTo        *uint64
	CompletionComment *string
}

// UpdateTaskInput represents input for updating a task. Pointer fields are
// applied only when set; AssigneeProvided distinguishes "clear the assignee"
// from "leave it alone".
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Status            *models.TaskStatus
	DueDate           *time.Time
	ClearDueDate      bool
	AssignedTo        *uint64
	AssigneeProvided  bool
	CompletionComment *string
}

// ListTasks returns a project's tasks, newest first, provided the actor may
// view the project.
func (s *TaskService) ListTasks(actor authz.Actor, projectID uint64, page, pageSize int) ([]models.Task, int64, error) {
	if _, _, err := s.loadProjectFacts(actor, projectID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.ListByProject(projectID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data. The assignee may view a task
// even without access to its project.
func (s *TaskService) GetTask(actor authz.Actor, projectID, taskID uint64) (*models.Task, error) {
	task, _, _, err := s.loadVisibleTask(actor, projectID, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask creates a task in the project. The initial status is caller
// specified; creating directly in completed stamps the completion metadata
// and requires a comment, like any other transition into completed.
func (s *TaskService) CreateTask(actor authz.Actor, projectID uint64, input CreateTaskInput) (*models.Task, error) {
	project, isMember, err := s.loadProjectFacts(actor, projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanCreateTask(actor, project, isMember) {
		return nil, ErrNotPermitted
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if !input.Status.Valid() {
		return nil, NewValidationError("status", "status must be pending, in_progress or completed")
	}
	if input.DueDate != nil && input.DueDate.Before(startOfToday()) {
		return nil, NewValidationError("due_date", "due date must be today or later")
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		ProjectID:   projectID,
		CreatorID:   actor.ID,
		DueDate:     input.DueDate,
	}

	// Assignee changes are admin-only; anyone else's value is dropped.
	if actor.Admin && input.AssignedTo != nil {
		if err := s.verifyUserExists(*input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}

	if err := applyStatusTransition(task, input.Status, actor, input.CompletionComment); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTask applies field updates and the status transition in one unit.
func (s *TaskService) UpdateTask(actor authz.Actor, projectID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, project, isMember, err := s.loadVisibleTask(actor, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateTask(actor, task, project, isMember) {
		return nil, ErrNotPermitted
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, NewValidationError("title", "title cannot be empty")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.AssigneeProvided && actor.Admin {
		if input.AssignedTo != nil {
			if err := s.verifyUserExists(*input.AssignedTo); err != nil {
				return nil, err
			}
		}
		task.AssignedTo = input.AssignedTo
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, NewValidationError("status", "status must be pending, in_progress or completed")
		}
		if err := applyStatusTransition(task, *input.Status, actor, input.CompletionComment); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// DeleteTask removes a task. Admin only.
func (s *TaskService) DeleteTask(actor authz.Actor, projectID, taskID uint64) error {
	_, _, _, err := s.loadVisibleTask(actor, projectID, taskID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteTask(actor) {
		return ErrNotPermitted
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// applyStatusTransition moves the task to newStatus and keeps the completion
// metadata consistent:
//   - entering completed requires a comment and stamps all three fields
//   - leaving completed clears all three fields unconditionally
//   - completed to completed overwrites the comment only, when one is given
//   - moves between non-completed states touch nothing
func applyStatusTransition(task *models.Task, newStatus models.TaskStatus, actor authz.Actor, comment *string) error {
	wasCompleted := task.Status == models.TaskStatusCompleted
	task.Status = newStatus

	switch {
	case newStatus == models.TaskStatusCompleted && !wasCompleted:
		if comment == nil || strings.TrimSpace(*comment) == "" {
			return NewValidationError("completion_comment", "a comment is required when completing a task")
		}
		now := time.Now()
		actorID := actor.ID
		task.CompletedAt = &now
		task.CompletedBy = &actorID
		task.CompletionComment = comment
	case newStatus != models.TaskStatusCompleted && wasCompleted:
		task.CompletedAt = nil
		task.CompletedBy = nil
		task.CompletionComment = nil
	case newStatus == models.TaskStatusCompleted && wasCompleted:
		if comment != nil {
			task.CompletionComment = comment
		}
	}

	return nil
}

// loadProjectFacts loads a project plus the actor's membership and verifies
// project visibility.
func (s *TaskService) loadProjectFacts(actor authz.Actor, projectID uint64) (*models.Project, bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
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

// loadVisibleTask loads a task within its project and verifies the actor may
// view it. Task visibility extends project visibility to the assignee, so
// the project is loaded without the project-level view check here.
func (s *TaskService) loadVisibleTask(actor authz.Actor, projectID, taskID uint64) (*models.Task, *models.Project, bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, NewNotFoundError("project")
		}
		return nil, nil, false, fmt.Errorf("failed to find project: %w", err)
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, NewNotFoundError("task")
		}
		return nil, nil, false, fmt.Errorf("failed to find task: %w", err)
	}

	if task.ProjectID != project.ID {
		return nil, nil, false, NewNotFoundError("task")
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.ID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to check membership: %w", err)
	}

	if !authz.CanViewTask(actor, task, project, isMember) {
		return nil, nil, false, NewNotFoundError("task")
	}

	return task, project, isMember, nil
}

func (s *TaskService) verifyUserExists(userID uint64) error {
	count, err := s.userRepo.CountByIDs([]uint64{userID})
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if count == 0 {
		return NewValidationError("assigned_to", "assigned user does not exist")
	}
	return nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
