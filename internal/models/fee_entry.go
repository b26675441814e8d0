package models

import (
	"time"
)

// CalculationMethod identifies the strategy that produced a fee.
type CalculationMethod string

const (
	MethodPercentage     CalculationMethod = "PERCENTAGE"
	MethodFlat           CalculationMethod = "FLAT"
	MethodStandard       CalculationMethod = "STANDARD"
	MethodTiered         CalculationMethod = "TIERED"
	MethodVolumeBased    CalculationMethod = "VOLUME_BASED"
	MethodLoyalty        CalculationMethod = "LOYALTY"
	MethodPromotional    CalculationMethod = "PROMOTIONAL"
	MethodSeasonal       CalculationMethod = "SEASONAL"
	MethodGroupSizeBased CalculationMethod = "GROUP_SIZE_BASED"
	MethodActivityBased  CalculationMethod = "ACTIVITY_BASED"
	MethodTimeBased      CalculationMethod = "TIME_BASED"
	MethodCombined       CalculationMethod = "COMBINED"
)

// Fee entry statuses.
const (
	FeeStatusPending           = "PENDING"
	FeeStatusPaid              = "PAID"
	FeeStatusPartiallyRefunded = "PARTIALLY_REFUNDED"
	FeeStatusRefunded          = "REFUNDED"
	FeeStatusFailed            = "FAILED"
)

// FeeEntry is a ledger record of a single computed service fee. Entries are
// never deleted; refunds and adjustments mutate them through the refund
// engine only.
type FeeEntry struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	UserID            uint              `gorm:"index;not null" json:"user_id"`
	GroupID           uint              `gorm:"index;not null" json:"group_id"`
	PaymentID         uint              `gorm:"index;not null" json:"payment_id"`
	OriginalAmount    float64           `gorm:"not null" json:"original_amount"`
	FeeAmount         float64           `gorm:"not null" json:"fee_amount"`
	FeePercentage     float64           `gorm:"not null" json:"fee_percentage"`
	CalculationMethod CalculationMethod `gorm:"not null" json:"calculation_method"`
	Status            string            `gorm:"index;not null;default:'PENDING'" json:"status"`
	RefundedAmount    float64           `gorm:"not null;default:0" json:"refunded_amount"`
	Details           JSON              `gorm:"type:jsonb" json:"details"`
	ChargeDate        time.Time         `gorm:"not null" json:"charge_date"`
	PaidDate          *time.Time        `json:"paid_date,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// RemainingBalance is the portion of the fee not yet refunded.
func (f *FeeEntry) RemainingBalance() float64 {
	return f.FeeAmount - f.RefundedAmount
}

// DeriveRefundStatus returns the status implied by the refunded amount.
// A zero refunded amount leaves the current status untouched.
func (f *FeeEntry) DeriveRefundStatus() string {
	switch {
	case f.RefundedAmount <= 0:
		return f.Status
	case f.RefundedAmount >= f.FeeAmount:
		return FeeStatusRefunded
	default:
		return FeeStatusPartiallyRefunded
	}
}
