package repositories

import (
	"context"
	"thrift/internal/models"
	"time"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return payments, total, nil
}

func (r *paymentRepository) VolumeSince(ctx context.Context, userID uint, since time.Time) (float64, error) {
	var volume float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, models.PaymentStatusPaid, since).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&volume)
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return volume, nil
}

func (r *paymentRepository) SuccessfulCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusPaid).
		Count(&count).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}

func (r *paymentRepository) ActivitySince(ctx context.Context, userID uint, since time.Time) (*PaymentActivity, error) {
	var activity PaymentActivity
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, models.PaymentStatusPaid, since).
		Select(`COUNT(*) as count,
			COALESCE(SUM(amount), 0) as volume,
			COALESCE(SUM(CASE WHEN paid_date IS NOT NULL AND paid_date <= due_date THEN 1 ELSE 0 END), 0) as on_time_count`).
		Row().Scan(&activity.Count, &activity.Volume, &activity.OnTimeCount)
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return &activity, nil
}
