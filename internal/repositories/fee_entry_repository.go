package repositories

import (
	"context"
	"errors"
	"thrift/internal/models"
	"time"
)

var ErrFeeEntryNotFound = errors.New("fee entry not found")

// RefundCandidateCriteria filters fee entries eligible for bulk refunds:
// PAID entries in the date window, at or above the minimum amount, with no
// refund applied yet.
type RefundCandidateCriteria struct {
	StartDate time.Time
	EndDate   time.Time
	MinAmount float64
	Limit     int
}

// FeeEntryRepository defines the interface for fee ledger persistence and
// the aggregation queries the analytics service runs over it.
type FeeEntryRepository interface {
	Create(ctx context.Context, entry *models.FeeEntry) error
	GetByID(ctx context.Context, id uint) (*models.FeeEntry, error)
	GetByPaymentID(ctx context.Context, paymentID uint) (*models.FeeEntry, error)
	Update(ctx context.Context, entry *models.FeeEntry) error

	// ListCandidates returns bulk-refund candidates. Read-only.
	ListCandidates(ctx context.Context, criteria RefundCandidateCriteria) ([]models.FeeEntry, error)

	// ListByDateRange returns PAID entries in [start, end], oldest first.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.FeeEntry, error)

	// Statistics aggregates PAID entries over [start, end]. Empty ranges
	// produce the zero value, not an error.
	Statistics(ctx context.Context, start, end time.Time) (*models.FeeStatistics, error)

	// TopUsers and TopGroups rank by total fees descending.
	TopUsers(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error)
	TopGroups(ctx context.Context, start, end time.Time, limit int) ([]models.EntityFeeTotal, error)

	// DailyTotals returns per-day totals in ascending chronological order.
	DailyTotals(ctx context.Context, start, end time.Time) ([]models.DailyFeeTotal, error)
}

// Implementation is in fee_entry_repository_impl.go
