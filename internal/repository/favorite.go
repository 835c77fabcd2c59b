package repository

import (
	"context"

	"odbyte/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, promptID uint) (bool, error)
	Add(ctx context.Context, userID, promptID uint) error
	Remove(ctx context.Context, userID, promptID uint) error
	ListPrompts(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error)
	FavoritedIDs(ctx context.Context, userID uint, promptIDs []uint) ([]uint, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, promptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *favoriteRepository) Add(ctx context.Context, userID, promptID uint) error {
	fav := models.Favorite{UserID: userID, PromptID: promptID}
	if err := r.db.WithContext(ctx).Create(&fav).Error; err != nil {
		// A concurrent toggle may have inserted the row first; the pair
		// index makes the second insert a no-op rather than a failure.
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, promptID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListPrompts returns the user's favorited prompts, most recently starred
// first. Prompts deleted since being starred drop out via the join.
func (r *favoriteRepository) ListPrompts(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error) {
	if limit <= 0 {
		limit = 20
	}
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Preload("User").
		Joins("JOIN favorites ON favorites.prompt_id = prompts.id").
		Where("favorites.user_id = ?", userID).
		Where("prompts.deleted_at IS NULL").
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}

func (r *favoriteRepository) FavoritedIDs(ctx context.Context, userID uint, promptIDs []uint) ([]uint, error) {
	if len(promptIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND prompt_id IN ?", userID, promptIDs).
		Pluck("prompt_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
