package repository

import (
	"context"
	"errors"

	"odbyte/internal/cache"
	"odbyte/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// RecordUpgrade writes the payment row and moves the user to the new
	// plan atomically. A verified payment must never be recorded without
	// its upgrade, or the other way round.
	RecordUpgrade(ctx context.Context, payment *models.Payment, plan string) error
	ListByUser(ctx context.Context, userID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) RecordUpgrade(ctx context.Context, payment *models.Payment, plan string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", payment.UserID).Update("plan", plan)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", payment.UserID)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, payment.UserID)
	return nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return payments, nil
}
