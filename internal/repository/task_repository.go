package repository

import (
	"github.com/acalderon/project-management-api/internal/database"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject retrieves a project's tasks, newest first, paginated
func (r *GormTaskRepository) ListByProject(projectID uint64, page, pageSize int) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("tasks.project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (page - 1) * pageSize,
			Limit:  pageSize,
		}))
	}

	var tasks []models.Task
	if err := listQuery.
		Preload("Creator").
		Preload("AssignedUser").
		Preload("CompletedByUser").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountByStatuses counts tasks whose status is in the given set
func (r *GormTaskRepository) CountByStatuses(statuses []models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("status IN ?", statuses).Count(&count).Error
	return count, err
}
