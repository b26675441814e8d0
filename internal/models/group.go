package models

import (
	"time"
)

// Payment frequencies for a savings group.
const (
	FrequencyWeekly   = "WEEKLY"
	FrequencyBiweekly = "BIWEEKLY"
	FrequencyMonthly  = "MONTHLY"
)

// Group is a rotating savings group. Members contribute ContributionAmount
// on the group's schedule and one member receives the pooled payout each
// round. Payout scheduling itself lives outside this service.
type Group struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	CoordinatorID      uint      `gorm:"index;not null" json:"coordinator_id"`
	ContributionAmount float64   `gorm:"not null" json:"contribution_amount"`
	Frequency          string    `gorm:"not null;default:'MONTHLY'" json:"frequency"`
	MemberCount        int       `gorm:"not null;default:0" json:"member_count"`
	TotalMembers       int       `gorm:"not null" json:"total_members"`
	InviteCode         string    `gorm:"uniqueIndex;not null" json:"invite_code"`
	Status             string    `gorm:"default:'active'" json:"status"`
	StartDate          time.Time `json:"start_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NextPaymentDate returns the contribution date following from on the
// group's frequency. Unknown frequencies behave as monthly.
func (g *Group) NextPaymentDate(from time.Time) time.Time {
	switch g.Frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}
