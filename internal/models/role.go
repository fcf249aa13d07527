package models

// Role slugs are static reference data, seeded at startup.
const (
	RoleSlugAdmin = "admin"
	RoleSlugUser  = "user"
)

type Role struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}
