package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name         string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"` // Unique, lower-cased email
	PasswordHash string    `gorm:"size:128;not null" json:"-"`                 // Hashed password, never serialized
	CreatedAt    time.Time `json:"created_at"`                                 // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at"`                                 // Last update timestamp
}
