package domain

import "time"

// Experience is a work history entry submitted with one application.
type Experience struct {
	ID            uint       `gorm:"primaryKey" json:"experience_id"`
	ApplicationID uint       `gorm:"not null;index" json:"application_id"`
	CompanyName   string     `gorm:"size:255;not null" json:"company_name"`
	Position      string     `gorm:"size:255;not null" json:"position"`
	Description   *string    `gorm:"type:text" json:"description"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
