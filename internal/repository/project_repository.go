package repository

import (
	"errors"

	"github.com/acalderon/project-management-api/internal/database"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwnerMembership creates a project and joins the owner as a member
// within a single transaction
func (r *GormProjectRepository) CreateWithOwnerMembership(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
		}
		return tx.Create(&member).Error
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListVisible returns projects the actor may see, newest first
func (r *GormProjectRepository) ListVisible(actorID uint64, admin bool, page, pageSize int) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{})

	if !admin {
		memberSubQuery := r.db.Model(&models.ProjectMember{}).
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.user_id = ?", actorID)
		query = query.Where("projects.owner_id = ? OR EXISTS (?)", actorID, memberSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (page - 1) * pageSize,
			Limit:  pageSize,
		}))
	}

	var projects []models.Project
	if err := listQuery.Preload("Owner").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// DeleteWithMembers removes a project and its membership rows atomically
func (r *GormProjectRepository) DeleteWithMembers(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// IsMember reports whether the user is an explicit member of the project
func (r *GormProjectRepository) IsMember(projectID, userID uint64) (bool, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SyncMembers replaces the project's entire membership set atomically
func (r *GormProjectRepository) SyncMembers(projectID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		members := make([]models.ProjectMember, len(userIDs))
		for i, userID := range userIDs {
			members[i] = models.ProjectMember{
				ProjectID: projectID,
				UserID:    userID,
			}
		}
		return tx.Create(&members).Error
	})
}

// ListMembers lists all members of a project with users preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// TaskCount returns the number of tasks in the project
func (r *GormProjectRepository) TaskCount(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// Count returns the total number of projects
func (r *GormProjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}
