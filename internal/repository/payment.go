package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines persistence operations for the payment ledger.
// Payment rows are append-only.
type PaymentRepository interface {
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Payment, error)
	// CreditPurchase records the payment and adds the purchased credits to
	// the user's balance in a single transaction. A retried gateway callback
	// hits the unique payment_id index and returns a conflict instead of
	// crediting twice.
	CreditPurchase(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository returns a new PaymentRepository implementation.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &payment, nil
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

func (r *paymentRepository) CreditPurchase(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("Payment has already been recorded")
			}
			return models.NewInternalError(err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", payment.UserID).
			UpdateColumn("total_ai_credits", gorm.Expr("total_ai_credits + ?", payment.NoOfCredits))
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", payment.UserID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, payment.UserID)
	return nil
}
