package models

import (
	"time"
)

// TeamMember represents a user's membership and role within a project.
// The project owner is not stored here; ownership lives on the project
// row and always wins during role resolution.
type TeamMember struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"uniqueIndex:idx_project_member;not null" json:"project_id"`
	Username   string    `gorm:"uniqueIndex:idx_project_member;size:100;not null" json:"username"`
	Role       string    `gorm:"size:50;default:viewer" json:"role"` // manager, developer, viewer
	AssignedAt time.Time `json:"assigned_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }
