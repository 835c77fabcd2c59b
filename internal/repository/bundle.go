package repository

import (
	"context"
	"errors"

	"odbyte/internal/models"

	"gorm.io/gorm"
)

// BundleRepository defines the interface for prompt bundle data operations
type BundleRepository interface {
	Create(ctx context.Context, bundle *models.PromptBundle) error
	GetByID(ctx context.Context, id uint) (*models.PromptBundle, error)
	GetByLink(ctx context.Context, link string) (*models.PromptBundle, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.PromptBundle, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, bundle *models.PromptBundle) error
	Delete(ctx context.Context, id uint) error
	GetPromptsByIDs(ctx context.Context, ids []uint) ([]*models.Prompt, error)
}

type bundleRepository struct {
	db *gorm.DB
}

// NewBundleRepository creates a new bundle repository
func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

// Create inserts the bundle and its member rows in one transaction so a
// failed item insert never leaves an empty shell behind.
func (r *bundleRepository) Create(ctx context.Context, bundle *models.PromptBundle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := bundle.Items
		bundle.Items = nil
		if err := tx.Create(bundle).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].BundleID = bundle.ID
		}
		bundle.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateError("Bundle link already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bundleRepository) GetByID(ctx context.Context, id uint) (*models.PromptBundle, error) {
	var bundle models.PromptBundle
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&bundle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Bundle", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &bundle, nil
}

func (r *bundleRepository) GetByLink(ctx context.Context, link string) (*models.PromptBundle, error) {
	var bundle models.PromptBundle
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("unique_link = ?", link).
		First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Bundle", link)
		}
		return nil, models.NewInternalError(err)
	}
	return &bundle, nil
}

func (r *bundleRepository) GetByUserID(ctx context.Context, userID uint) ([]*models.PromptBundle, error) {
	var bundles []*models.PromptBundle
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bundles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bundles, nil
}

func (r *bundleRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PromptBundle{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Update rewrites the bundle metadata and replaces its member rows with the
// set carried on bundle.Items.
func (r *bundleRepository) Update(ctx context.Context, bundle *models.PromptBundle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := bundle.Items
		bundle.Items = nil
		if err := tx.Save(bundle).Error; err != nil {
			return err
		}
		if err := tx.Where("bundle_id = ?", bundle.ID).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].BundleID = bundle.ID
		}
		bundle.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bundleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", id).Delete(&models.BundleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PromptBundle{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetPromptsByIDs resolves bundle members. Since-deleted prompts are simply
// absent from the result; callers preserve member order themselves.
func (r *bundleRepository) GetPromptsByIDs(ctx context.Context, ids []uint) ([]*models.Prompt, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var prompts []*models.Prompt
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}
