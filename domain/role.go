package domain

import "time"

// Role owns an ordered pipeline of Stages.
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"role_id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stage is one step of a role's hiring process. Sequence orders stages
// within a role; gaps are allowed.
type Stage struct {
	ID        uint      `gorm:"primaryKey" json:"stage_id"`
	Name      string    `gorm:"column:stage_name;size:255;not null" json:"stage_name"`
	RoleID    uint      `gorm:"not null;index:idx_stages_role_sequence,priority:1" json:"role_id"`
	Sequence  int       `gorm:"column:stage_sequence;not null;index:idx_stages_role_sequence,priority:2" json:"stage_sequence"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
