package handlers

import (
	"net/http"
	"time"

	"github.com/acalderon/project-management-api/internal/dto"
	apierrors "github.com/acalderon/project-management-api/internal/errors"
	"github.com/acalderon/project-management-api/internal/middleware"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/acalderon/project-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task-related HTTP handlers. All task routes are
// scoped under their project.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the project's tasks, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(actor, projectID, params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(actor, projectID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task in the project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title             string            `json:"title" binding:"required,max=255"`
		Description       string            `json:"description"`
		Status            models.TaskStatus `json:"status" binding:"required"`
		DueDate           *time.Time        `json:"due_date"`
		AssignedTo        *uint64           `json:"assigned_to"`
		CompletionComment *string           `json:"completion_comment"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.CreateTask(actor, projectID, services.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		DueDate:           req.DueDate,
		AssignedTo:        req.AssignedTo,
		CompletionComment: req.CompletionComment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies partial updates to a task. The raw JSON is inspected so
// that explicit nulls (clear due date, unassign) are distinguishable from
// omitted fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	input, ok := buildUpdateTaskInput(c, rawReq)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(actor, projectID, taskID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "task_id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, projectID, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// buildUpdateTaskInput translates the raw JSON body into a service input,
// reporting 400 on malformed values.
func buildUpdateTaskInput(c *gin.Context, rawReq map[string]any) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	if raw, ok := rawReq["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return input, false
		}
		input.Title = &title
	}

	if raw, ok := rawReq["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return input, false
		}
		input.Description = &description
	}

	if raw, ok := rawReq["status"]; ok {
		statusStr, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return input, false
		}
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}

	if raw, ok := rawReq["completion_comment"]; ok {
		if raw != nil {
			comment, ok := raw.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid completion_comment")
				return input, false
			}
			input.CompletionComment = &comment
		}
	}

	if raw, ok := rawReq["due_date"]; ok {
		if raw == nil {
			input.ClearDueDate = true
		} else {
			dueDateStr, ok := raw.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			parsed, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			input.DueDate = &parsed
		}
	}

	if raw, ok := rawReq["assigned_to"]; ok {
		input.AssigneeProvided = true
		if raw != nil {
			num, ok := raw.(float64)
			if !ok || num < 0 {
				apierrors.BadRequest(c, "Invalid assigned_to")
				return input, false
			}
			assignee := uint64(num)
			input.AssignedTo = &assignee
		}
	}

	return input, true
}
