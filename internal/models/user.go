package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Roles         []Role    `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	OwnedProjects []Project `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedTasks  []Task    `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task    `gorm:"foreignKey:AssignedTo" json:"-"`
}

// HasRole reports whether the user holds the role with the given slug.
// Roles must be preloaded; an unloaded slice reads as no roles.
func (u *User) HasRole(slug string) bool {
	for _, role := range u.Roles {
		if role.Slug == slug {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleSlugAdmin)
}
