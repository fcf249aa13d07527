package database

import (
	"fmt"
	"log"

	"github.com/acalderon/project-management-api/internal/config"
	"github.com/acalderon/project-management-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts the static roles and, when admin credentials are configured,
// a bootstrap admin account. Safe to run on every startup.
func Seed(db *gorm.DB, cfg *config.Config) error {
	roles := []models.Role{
		{Slug: models.RoleSlugAdmin, Name: "Admin"},
		{Slug: models.RoleSlugUser, Name: "User"},
	}

	for _, role := range roles {
		if err := db.Where(models.Role{Slug: role.Slug}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Slug, err)
		}
	}

	if cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var adminRole models.Role
	if err := db.Where("slug = ?", models.RoleSlugAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("failed to load admin role: %w", err)
	}

	admin := models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		IsActive:     true,
		Roles:        []models.Role{adminRole},
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Seeded admin user %s", cfg.AdminEmail)
	return nil
}
