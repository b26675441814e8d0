package repositories

import (
	"context"
	"log"
	"thrift/internal/models"

	"thrift/internal/repositories/cache"

	"gorm.io/gorm"
)

type feePolicyRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewFeePolicyRepository creates a new instance of FeePolicyRepository
func NewFeePolicyRepository(db *gorm.DB, cache *cache.CacheService) FeePolicyRepository {
	return &feePolicyRepository{
		db:    db,
		cache: cache,
	}
}

func (r *feePolicyRepository) Activate(ctx context.Context, policy *models.FeePolicy) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FeePolicy{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		policy.Active = true
		return tx.Create(policy).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.InvalidateActivePolicy(ctx); err != nil {
			log.Printf("Warning: failed to invalidate policy cache: %v", err)
		}
	}
	return nil
}

func (r *feePolicyRepository) GetActive(ctx context.Context) (*models.FeePolicy, error) {
	// Try cache first
	if r.cache != nil {
		if policy, err := r.cache.GetActivePolicy(ctx); err == nil {
			return policy, nil
		}
	}

	var policy models.FeePolicy
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&policy).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoActivePolicy
		}
		return nil, ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.CacheActivePolicy(ctx, &policy); err != nil {
			log.Printf("Warning: failed to cache active policy: %v", err)
		}
	}
	return &policy, nil
}

func (r *feePolicyRepository) GetByID(ctx context.Context, id uint) (*models.FeePolicy, error) {
	var policy models.FeePolicy
	if err := r.db.WithContext(ctx).First(&policy, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPolicyNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &policy, nil
}

func (r *feePolicyRepository) History(ctx context.Context, offset, limit int) ([]models.FeePolicy, int64, error) {
	var policies []models.FeePolicy
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.FeePolicy{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&policies).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return policies, total, nil
}
