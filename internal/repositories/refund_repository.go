package repositories

import (
	"context"
	"thrift/internal/models"
)

// RefundRepository owns the mutations of the refund flow. Applying a refund
// or adjustment updates the fee entry and inserts the audit record in one
// transaction, so a ledger entry can never drift from its records.
type RefundRepository interface {
	// ApplyRefund persists the updated fee entry and its refund record
	// atomically.
	ApplyRefund(ctx context.Context, entry *models.FeeEntry, record *models.RefundRecord) error

	// ApplyAdjustment persists the updated fee entry and its adjustment
	// record atomically.
	ApplyAdjustment(ctx context.Context, entry *models.FeeEntry, record *models.AdjustmentRecord) error

	// ListRefunds returns refund records for a fee entry, oldest first.
	ListRefunds(ctx context.Context, feeEntryID uint) ([]models.RefundRecord, error)

	// ListAdjustments returns adjustment records for a fee entry, oldest first.
	ListAdjustments(ctx context.Context, feeEntryID uint) ([]models.AdjustmentRecord, error)
}

// Implementation is in refund_repository_impl.go
