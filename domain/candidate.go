package domain

import "time"

type Candidate struct {
	ID          uint      `gorm:"primaryKey" json:"candidate_id"`
	Photo       *string   `gorm:"size:512" json:"photo"`
	Name        string    `gorm:"column:candidate_name;size:255;not null" json:"candidate_name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"size:64;uniqueIndex;not null" json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
