package repositories

import (
	"context"
	"thrift/internal/models"
	"time"

	"gorm.io/gorm"
)

type feeEntryRepository struct {
	db *gorm.DB
}

// NewFeeEntryRepository creates a new instance of FeeEntryRepository
func NewFeeEntryRepository(db *gorm.DB) FeeEntryRepository {
	return &feeEntryRepository{db: db}
}

func (r *feeEntryRepository) Create(ctx context.Context, entry *models.FeeEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *feeEntryRepository) GetByID(ctx context.Context, id uint) (*models.FeeEntry, error) {
	var entry models.FeeEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFeeEntryNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &entry, nil
}

func (r *feeEntryRepository) GetByPaymentID(ctx context.Context, paymentID uint) (*models.FeeEntry, error) {
	var entry models.FeeEntry
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFeeEntryNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &entry, nil
}

func (r *feeEntryRepository) Update(ctx context.Context, entry *models.FeeEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *feeEntryRepository) ListCandidates(ctx context.Context, criteria RefundCandidateCriteria) ([]models.FeeEntry, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = 100
	}

	var entries []models.FeeEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND refunded_amount = 0", models.FeeStatusPaid).
		Where("charge_date BETWEEN ? AND ?", criteria.StartDate, criteria.EndDate).
		Where("fee_amount >= ?", criteria.MinAmount).
		Order("charge_date ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return entries, nil
}

func (r *feeEntryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.FeeEntry, error) {
	var entries []models.FeeEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND charge_date BETWEEN ? AND ?", models.FeeStatusPaid, start, end).
		Order("charge_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return entries, nil
}

func (r *feeEntryRepository) Statistics(ctx context.Context, start, end time.Time) (*models.FeeStatistics, error) {
	var stats models.FeeStatistics

	err := r.db.WithContext(ctx).Model(&models.FeeEntry{}).
		Where("status = ? AND charge_date BETWEEN ? AND ?", models.FeeStatusPaid, start, end).
		Select(`COALESCE(SUM(fee_amount), 0) as total_fees,
			COUNT(*) as total_transactions,
			COALESCE(AVG(fee_amount), 0) as average_fee,
			COALESCE(MAX(fee_amount), 0) as max_fee,
			COALESCE(MIN(fee_amount), 0) as min_fee,
			COALESCE(SUM(CASE WHEN calculation_method = 'PERCENTAGE' THEN 1 ELSE 0 END), 0) as percentage_fee_count,
			COALESCE(SUM(CASE WHEN calculation_method = 'FLAT' THEN 1 ELSE 0 END), 0) as flat_fee_count`).
		Row().Scan(&stats.TotalFees, &stats.TotalTransactions, &stats.AverageFee,
		&stats.MaxFee, &stats.MinFee, &stats.PercentageFeeCount, &stats.FlatFeeCount)
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return &stats, nil
}

func (r *feeEntryRepository) TopUsers(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error) {
	return r.topByColumn(ctx, "user_id", start, end, limit)
}

func (r *feeEntryRepository) TopGroups(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error) {
	return r.topByColumn(ctx, "group_id", start, end, limit)
}

func (r *feeEntryRepository) topByColumn(ctx context.Context, column string, start, end time.Time, limit int) ([]models.EntityFeeTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.FeeEntry{}).
		Select(column+" as entity_id, SUM(fee_amount) as total_fees, COUNT(*) as transaction_count, AVG(fee_amount) as average_fee").
		Where("status = ? AND charge_date BETWEEN ? AND ?", models.FeeStatusPaid, start, end).
		Group(column).
		Order("total_fees DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	defer rows.Close()

	totals := make([]models.EntityFeeTotal, 0)
	for rows.Next() {
		var t models.EntityFeeTotal
		if err := rows.Scan(&t.EntityID, &t.TotalFees, &t.TransactionCount, &t.AverageFee); err != nil {
			return nil, ErrDatabaseOperation
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrDatabaseOperation
	}
	return totals, nil
}

func (r *feeEntryRepository) DailyTotals(ctx context.Context, start, end time.Time) ([]models.DailyFeeTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.FeeEntry{}).
		Select("DATE(charge_date) as day, SUM(fee_amount) as total_fees, COUNT(*) as transaction_count, AVG(fee_amount) as average_fee").
		Where("status = ? AND charge_date BETWEEN ? AND ?", models.FeeStatusPaid, start, end).
		Group("DATE(charge_date)").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	defer rows.Close()

	totals := make([]models.DailyFeeTotal, 0)
	for rows.Next() {
		var t models.DailyFeeTotal
		if err := rows.Scan(&t.Date, &t.TotalFees, &t.TransactionCount, &t.AverageFee); err != nil {
			return nil, ErrDatabaseOperation
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrDatabaseOperation
	}
	return totals, nil
}
