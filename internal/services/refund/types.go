package refund

import (
	"thrift/internal/models"
)

// RefundRequest is a single admin-initiated refund.
type RefundRequest struct {
	FeeEntryID uint                `json:"fee_entry_id"`
	Amount     float64             `json:"amount"`
	Reason     models.RefundReason `json:"reason"`
	AdminID    uint                `json:"admin_id"`
	Notes      string              `json:"notes,omitempty"`
}

// AdjustmentRequest corrects a fee amount without moving refund money.
// AdjustmentAmount is signed; negative lowers the fee.
type AdjustmentRequest struct {
	FeeEntryID       uint    `json:"fee_entry_id"`
	AdjustmentAmount float64 `json:"adjustment_amount"`
	Reason           string  `json:"reason"`
	AdminID          uint    `json:"admin_id"`
	Notes            string  `json:"notes,omitempty"`
}

// BulkRefundRequest refunds a percentage of the fee across many entries.
type BulkRefundRequest struct {
	FeeEntryIDs      []uint              `json:"fee_entry_ids"`
	Reason           models.RefundReason `json:"reason"`
	AdminID          uint                `json:"admin_id"`
	RefundPercentage float64             `json:"refund_percentage"`
}

// BulkRefundResult reports a completed batch. Failures are per item and
// never abort the rest of the batch.
type BulkRefundResult struct {
	Processed int                   `json:"processed"`
	Skipped   int                   `json:"skipped"`
	Refunds   []models.RefundRecord `json:"refunds"`
	Failures  []BulkRefundFailure   `json:"failures,omitempty"`
}

// BulkRefundFailure names one entry the batch skipped and why.
type BulkRefundFailure struct {
	FeeEntryID uint   `json:"fee_entry_id"`
	Reason     string `json:"reason"`
}
