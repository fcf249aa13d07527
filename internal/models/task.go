package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the three known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ProjectID   uint64     `gorm:"not null;index" json:"project_id"`
	CreatorID   uint64     `gorm:"not null;index" json:"creator_id"`
	AssignedTo  *uint64    `gorm:"index" json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`

	// Completion metadata. Non-null exactly while Status is completed.
	CompletedAt       *time.Time `json:"completed_at"`
	CompletedBy       *uint64    `json:"completed_by"`
	CompletionComment *string    `gorm:"type:text" json:"completion_comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project         Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator         User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	AssignedUser    *User   `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
	CompletedByUser *User   `gorm:"foreignKey:CompletedBy" json:"completed_by_user,omitempty"`
}
