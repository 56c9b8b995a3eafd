package models

import "time"

// Profile is the social-facing extension of an account. Exactly one per account.
type Profile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"user"`
	Username    string     `gorm:"size:255;not null;uniqueIndex" json:"username"`
	FirstName   string     `gorm:"size:255;not null" json:"first_name"`
	LastName    string     `gorm:"size:255;not null" json:"last_name"`
	BirthDate   *time.Time `gorm:"type:date" json:"birth_date"`
	Description string     `gorm:"size:255" json:"description"`
	Image       string     `gorm:"size:512" json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
