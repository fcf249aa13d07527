package models

// ProjectMember links a collaborator to a project. Pure join row; ownership
// is tracked separately on the project itself.
type ProjectMember struct {
	ProjectID uint64 `gorm:"primarykey" json:"project_id"`
	UserID    uint64 `gorm:"primarykey" json:"user_id"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
