package models

import (
	"time"
)

// Promotion types.
const (
	PromotionTypeNewUser    = "NEW_USER"
	PromotionTypeGroupBoost = "GROUP_BOOST"
	PromotionTypeSeasonal   = "SEASONAL"
)

// Promotion grants a fee discount to a user, a group, or a (user, group)
// pair for a bounded time window. Discount is a fraction in [0, 1].
type Promotion struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Type      string    `gorm:"not null" json:"type"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Discount  float64   `gorm:"not null" json:"discount"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Active    bool      `gorm:"index;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AppliesAt reports whether the promotion is live at the given instant.
func (p *Promotion) AppliesAt(t time.Time) bool {
	return p.Active && !t.Before(p.StartsAt) && t.Before(p.ExpiresAt)
}
