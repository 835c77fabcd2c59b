package models

import (
	"time"

	"gorm.io/gorm"
)

// PromptBundle is a named, shareable collection of a user's prompts,
// addressable by an unguessable link. Members reference prompts weakly:
// a member may point at a since-deleted prompt and read paths must drop it.
type PromptBundle struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	UniqueLink  string         `gorm:"unique;not null" json:"unique_link"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Items       []BundleItem   `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BundleItem is one ordered membership row of a bundle. Position preserves
// the insertion order chosen by the owner.
type BundleItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BundleID uint `gorm:"not null;uniqueIndex:idx_bundle_prompt" json:"bundle_id"`
	PromptID uint `gorm:"not null;uniqueIndex:idx_bundle_prompt" json:"prompt_id"`
	Position int  `gorm:"not null" json:"position"`
}

// PromptIDs returns the member prompt ids in stored order.
func (b *PromptBundle) PromptIDs() []uint {
	ids := make([]uint, 0, len(b.Items))
	for _, it := range b.Items {
		ids = append(ids, it.PromptID)
	}
	return ids
}
