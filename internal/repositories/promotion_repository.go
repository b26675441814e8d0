package repositories

import (
	"context"
	"errors"
	"thrift/internal/models"
	"time"
)

var ErrNoActivePromotion = errors.New("no active promotion")

// PromotionRepository resolves the promotion applicable to a contribution.
// User-scoped promotions win over group-scoped ones, newest first.
type PromotionRepository interface {
	Create(ctx context.Context, promo *models.Promotion) error
	GetActivePromotion(ctx context.Context, userID, groupID uint, at time.Time) (*models.Promotion, error)
	Deactivate(ctx context.Context, id uint) error
}

// Implementation is in promotion_repository_impl.go
