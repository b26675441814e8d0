package repositories

import (
	"context"
	"thrift/internal/models"

	"gorm.io/gorm"
)

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new instance of RefundRepository
func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) ApplyRefund(ctx context.Context, entry *models.FeeEntry, record *models.RefundRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *refundRepository) ApplyAdjustment(ctx context.Context, entry *models.FeeEntry, record *models.AdjustmentRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *refundRepository) ListRefunds(ctx context.Context, feeEntryID uint) ([]models.RefundRecord, error) {
	var records []models.RefundRecord
	err := r.db.WithContext(ctx).
		Where("fee_entry_id = ?", feeEntryID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return records, nil
}

func (r *refundRepository) ListAdjustments(ctx context.Context, feeEntryID uint) ([]models.AdjustmentRecord, error) {
	var records []models.AdjustmentRecord
	err := r.db.WithContext(ctx).
		Where("fee_entry_id = ?", feeEntryID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return records, nil
}
