package models

import (
	"time"

	"gorm.io/gorm"
)

// Prompt visibility states.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Premium review states. A prompt enters the review pipeline via owner
// submission and leaves it via an admin decision.
const (
	PremiumStatusNone     = "none"
	PremiumStatusPending  = "pending"
	PremiumStatusApproved = "approved"
	PremiumStatusRejected = "rejected"
)

// Prompt represents an authored AI prompt in the Odbyte application.
type Prompt struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"type:text;not null" json:"description"`
	Content       string `gorm:"type:text;not null" json:"content"`
	Tags          string `json:"tags"`
	Category      string `gorm:"index" json:"category"`
	AIModel       string `gorm:"column:ai_model;index" json:"ai_model"`
	Visibility    string `gorm:"not null;default:private" json:"visibility"`
	IsPremium     bool   `gorm:"not null;default:false" json:"is_premium"`
	PremiumStatus string `gorm:"not null;default:none" json:"premium_status"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	// The full user row never serializes; prompts expose their author
	// through Author, the same public shape bundle links use.
	User   User           `gorm:"foreignKey:UserID" json:"-"`
	Author *PublicProfile `gorm:"-" json:"author,omitempty"`
	// Favorited indicates whether the current requesting user starred this prompt (computed)
	Favorited bool           `gorm:"->" json:"favorited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AfterFind projects the preloaded author onto the public profile shape.
func (p *Prompt) AfterFind(*gorm.DB) error {
	if p.User.ID != 0 {
		author := p.User.Public()
		p.Author = &author
	}
	return nil
}

// IsApprovedPremium reports whether the prompt is live in the premium tier.
func (p *Prompt) IsApprovedPremium() bool {
	return p.IsPremium && p.PremiumStatus == PremiumStatusApproved
}
