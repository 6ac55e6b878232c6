package models

import (
	"time"
)

// User represents an account in the system (client, technician or admin)
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"column:password;not null" json:"-"` // never serialized
	Role            Role      `gorm:"type:text;not null;default:'CLIENT'" json:"role"`
	Profession      *string   `json:"profession"`
	Phone           *string   `json:"phone"`
	ProfileImageKey *string   `json:"-"`                                    // storage key of the uploaded image
	ProfileImageURL *string   `gorm:"-" json:"profile_image_url,omitempty"` // resolved from ProfileImageKey
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
