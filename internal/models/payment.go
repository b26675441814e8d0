package models

import (
	"time"
)

// Payment statuses.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusMissed  = "MISSED"
	PaymentStatusFailed  = "FAILED"
)

// Payment is a member's contribution toward a group round. Fees hang off
// payments one-to-one through the fee ledger.
type Payment struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	GroupID   uint       `gorm:"index;not null" json:"group_id"`
	Amount    float64    `gorm:"not null" json:"amount"`
	Status    string     `gorm:"index;not null;default:'PENDING'" json:"status"`
	ChargeID  string     `json:"charge_id,omitempty"` // external gateway charge, when card-funded
	DueDate   time.Time  `json:"due_date"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RecordPaymentRequest is the payload for recording a contribution.
type RecordPaymentRequest struct {
	GroupID  uint    `json:"group_id"`
	Amount   float64 `json:"amount"`
	ChargeID string  `json:"charge_id,omitempty"`
	Method   string  `json:"method,omitempty"` // optional fee calculation method override
}
