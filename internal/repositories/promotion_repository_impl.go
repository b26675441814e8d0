package repositories

import (
	"context"
	"thrift/internal/models"
	"time"

	"gorm.io/gorm"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new instance of PromotionRepository
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *promotionRepository) GetActivePromotion(ctx context.Context, userID, groupID uint, at time.Time) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("active = ? AND starts_at <= ? AND expires_at > ?", true, at, at).
		Where("(user_id = ? OR user_id IS NULL) AND (group_id = ? OR group_id IS NULL)", userID, groupID).
		Order("user_id IS NOT NULL DESC, created_at DESC").
		First(&promo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoActivePromotion
		}
		return nil, ErrDatabaseOperation
	}
	return &promo, nil
}

func (r *promotionRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrNoActivePromotion
	}
	return nil
}
