package models

import "time"

// Favorite is the star association between a user and a prompt. The
// (user_id, prompt_id) pair is unique; rows are removed when either side
// of the association is deleted.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_prompt" json:"user_id"`
	PromptID  uint      `gorm:"not null;uniqueIndex:idx_fav_user_prompt" json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}
