package domain

import "time"

type Opening struct {
	ID                 uint      `gorm:"primaryKey" json:"opening_id"`
	Title              string    `gorm:"size:255;not null" json:"title"`
	Description        string    `gorm:"type:text;not null" json:"description"`
	Requirements       string    `gorm:"type:text;not null" json:"requirements"`
	SalaryRange        string    `gorm:"size:128;not null" json:"salary_range"`
	Location           string    `gorm:"size:255;not null;index" json:"location"`
	IsRemote           bool      `gorm:"not null" json:"is_remote"`
	IsActive           bool      `gorm:"not null" json:"is_active"`
	PostedDate         time.Time `json:"posted_date"`
	Deadline           time.Time `gorm:"not null" json:"deadline"`
	RoleID             uint      `gorm:"not null;index" json:"role_id"`
	ExperienceRequired int       `gorm:"not null" json:"experience_required"`
}
