package repositories

import (
	"context"
	"errors"
	"thrift/internal/models"
	"time"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentActivity summarizes a user's contribution behavior over a window.
// The fee calculators derive volume discounts, loyalty tiers, and activity
// multipliers from it.
type PaymentActivity struct {
	Count       int64
	Volume      float64
	OnTimeCount int64
}

// PaymentRepository defines the interface for contribution payments and the
// history lookups the fee calculators depend on.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Payment, int64, error)

	// VolumeSince sums a user's PAID contribution amounts since the cutoff.
	VolumeSince(ctx context.Context, userID uint, since time.Time) (float64, error)

	// SuccessfulCount counts a user's PAID contributions, all time.
	SuccessfulCount(ctx context.Context, userID uint) (int64, error)

	// ActivitySince aggregates count, volume and on-time count since the cutoff.
	ActivitySince(ctx context.Context, userID uint, since time.Time) (*PaymentActivity, error)
}

// Implementation is in payment_repository_impl.go
