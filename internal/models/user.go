// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Odbyte application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Plan      string         `gorm:"not null;default:free" json:"plan"`
	IsAdmin   bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Prompts   []Prompt       `gorm:"foreignKey:UserID" json:"prompts,omitempty"`
}

// PublicProfile is the author shape exposed on unauthenticated surfaces
// (bundle share links). It must never carry email or credentials.
type PublicProfile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Public returns the user's shareable profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name}
}
