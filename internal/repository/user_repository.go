package repository

import (
	"github.com/acalderon/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user with its role links
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID with roles preloaded
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email with roles preloaded
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users with roles preloaded, newest first
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Roles").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountAdmins returns how many users hold the admin role
func (r *GormUserRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.slug = ?", models.RoleSlugAdmin).
		Count(&count).Error
	return count, err
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(userIDs []uint64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.User{}).Where("id IN ?", userIDs).Count(&count).Error
	return count, err
}

// CountOwnedProjects returns how many projects the user owns
func (r *GormUserRepository) CountOwnedProjects(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("owner_id = ?", userID).Count(&count).Error
	return count, err
}

// CountCreatedTasks returns how many tasks the user created
func (r *GormUserRepository) CountCreatedTasks(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("creator_id = ?", userID).Count(&count).Error
	return count, err
}

// CountAssignedTasks returns how many tasks are assigned to the user
func (r *GormUserRepository) CountAssignedTasks(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("assigned_to = ?", userID).Count(&count).Error
	return count, err
}

// SetActive updates the user's active flag
func (r *GormUserRepository) SetActive(userID uint64, active bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_active", active).Error
}

// Delete removes a user along with role links and project memberships
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
