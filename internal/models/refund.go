package models

import (
	"time"
)

// RefundReason classifies why a fee was refunded or adjusted.
type RefundReason string

const (
	RefundReasonSystemError       RefundReason = "SYSTEM_ERROR"
	RefundReasonOvercharge        RefundReason = "OVERCHARGE"
	RefundReasonCustomerRequest   RefundReason = "CUSTOMER_REQUEST"
	RefundReasonLoyaltyAdjustment RefundReason = "LOYALTY_ADJUSTMENT"
	RefundReasonPromotionalCredit RefundReason = "PROMOTIONAL_CREDIT"
)

// ValidRefundReason reports whether the reason is one of the known values.
func ValidRefundReason(r RefundReason) bool {
	switch r {
	case RefundReasonSystemError, RefundReasonOvercharge, RefundReasonCustomerRequest,
		RefundReasonLoyaltyAdjustment, RefundReasonPromotionalCredit:
		return true
	}
	return false
}

// RefundRecord is an immutable audit record of a single refund applied to a
// fee entry.
type RefundRecord struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	FeeEntryID uint         `gorm:"index;not null" json:"fee_entry_id"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Reason     RefundReason `gorm:"not null" json:"reason"`
	AdminID    uint         `gorm:"not null" json:"admin_id"`
	Notes      string       `json:"notes,omitempty"`
	Reference  string       `gorm:"uniqueIndex;not null" json:"reference"`
	CreatedAt  time.Time    `json:"created_at"`
}

// AdjustmentRecord is an immutable audit record of a signed correction to a
// fee entry's amount.
type AdjustmentRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FeeEntryID uint      `gorm:"index;not null" json:"fee_entry_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Reason     string    `gorm:"not null" json:"reason"`
	AdminID    uint      `gorm:"not null" json:"admin_id"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
