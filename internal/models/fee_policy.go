package models

import (
	"errors"
	"time"
)

// Policy validation errors.
var (
	ErrPolicyRateOutOfRange     = errors.New("percentage rate must be between 0 and 100")
	ErrPolicyNegativeFlatAmount = errors.New("flat amount cannot be negative")
	ErrPolicyNegativeMinimum    = errors.New("minimum fee cannot be negative")
	ErrPolicyBoundsInverted     = errors.New("maximum fee cannot be below minimum fee")
)

// FeePolicy is the admin-managed service fee configuration. Exactly one
// policy is active at a time; superseded policies are kept for audit and
// never mutated again.
type FeePolicy struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	PercentageRate    float64   `gorm:"not null;default:1" json:"percentage_rate"`
	FlatAmount        float64   `gorm:"not null;default:0" json:"flat_amount"`
	MinimumFee        float64   `gorm:"not null;default:0" json:"minimum_fee"`
	MaximumFee        float64   `gorm:"not null;default:1000" json:"maximum_fee"`
	IsPercentageBased bool      `gorm:"default:true" json:"is_percentage_based"`
	UpdatedBy         uint      `gorm:"not null" json:"updated_by"`
	Active            bool      `gorm:"index;default:true" json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validate checks the policy's range constraints.
func (p *FeePolicy) Validate() error {
	switch {
	case p.PercentageRate < 0 || p.PercentageRate > 100:
		return ErrPolicyRateOutOfRange
	case p.FlatAmount < 0:
		return ErrPolicyNegativeFlatAmount
	case p.MinimumFee < 0:
		return ErrPolicyNegativeMinimum
	case p.MaximumFee < p.MinimumFee:
		return ErrPolicyBoundsInverted
	}
	return nil
}

// Clamp bounds a computed fee to the policy's [minimum, maximum] window.
func (p *FeePolicy) Clamp(fee float64) float64 {
	if fee < p.MinimumFee {
		return p.MinimumFee
	}
	if fee > p.MaximumFee {
		return p.MaximumFee
	}
	return fee
}

// StandardFee is the base fee before any strategy discount: percentage of
// the amount when the policy is percentage based, flat otherwise.
func (p *FeePolicy) StandardFee(amount float64) float64 {
	if p.IsPercentageBased {
		return amount * p.PercentageRate / 100
	}
	return p.FlatAmount
}
