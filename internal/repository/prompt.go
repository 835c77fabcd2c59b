package repository

import (
	"context"
	"errors"

	"odbyte/internal/models"

	"gorm.io/gorm"
)

// SearchFilter narrows the explore listing. Query matches title, description
// and tags; Category and AIModel are exact facet filters.
type SearchFilter struct {
	Query       string
	Category    string
	AIModel     string
	PremiumOnly bool
	Limit       int
	Offset      int
}

// Facets holds the distinct filter values present across public prompts.
type Facets struct {
	Categories []string `json:"categories"`
	AIModels   []string `json:"ai_models"`
}

// PromptRepository defines the interface for prompt data operations
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	GetByID(ctx context.Context, id uint) (*models.Prompt, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Search(ctx context.Context, filter SearchFilter) ([]*models.Prompt, error)
	ListFacets(ctx context.Context) (*Facets, error)
	ListByPremiumStatus(ctx context.Context, status string, limit, offset int) ([]*models.Prompt, error)
	Update(ctx context.Context, prompt *models.Prompt) error
	Delete(ctx context.Context, id uint) error
}

// promptRepository implements PromptRepository
type promptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	if err := r.db.WithContext(ctx).Create(prompt).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *promptRepository) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&prompt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Prompt", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &prompt, nil
}

func (r *promptRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error) {
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}

func (r *promptRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Search lists public prompts matching the filter, newest first. Premium
// prompts only surface once approved; gating by viewer plan happens above
// this layer. LOWER(...) LIKE keeps the match case-insensitive on both
// supported drivers.
func (r *promptRepository) Search(ctx context.Context, filter SearchFilter) ([]*models.Prompt, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Preload("User").
		Where("visibility = ?", models.VisibilityPublic).
		Where("is_premium = ? OR premium_status = ?", false, models.PremiumStatusApproved)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(tags) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AIModel != "" {
		q = q.Where("ai_model = ?", filter.AIModel)
	}
	if filter.PremiumOnly {
		q = q.Where("is_premium = ?", true)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var prompts []*models.Prompt
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}

// ListFacets collects the distinct non-empty categories and model names
// across public prompts for the explore filter UI.
func (r *promptRepository) ListFacets(ctx context.Context) (*Facets, error) {
	facets := &Facets{Categories: []string{}, AIModels: []string{}}

	err := r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Where("visibility = ? AND category <> ''", models.VisibilityPublic).
		Distinct().
		Order("category").
		Pluck("category", &facets.Categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Where("visibility = ? AND ai_model <> ''", models.VisibilityPublic).
		Distinct().
		Order("ai_model").
		Pluck("ai_model", &facets.AIModels).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return facets, nil
}

func (r *promptRepository) ListByPremiumStatus(ctx context.Context, status string, limit, offset int) ([]*models.Prompt, error) {
	if limit <= 0 {
		limit = 50
	}
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("premium_status = ?", status).
		Order("updated_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}

func (r *promptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	if err := r.db.WithContext(ctx).Save(prompt).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the prompt along with its favorite rows and any bundle
// memberships pointing at it, in one transaction.
func (r *promptRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("prompt_id = ?", id).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Prompt{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
