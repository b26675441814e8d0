package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"` // Unique index on Email
	Password            string `gorm:"not null"`
	FirstName           string `gorm:"not null"`
	LastName            string `gorm:"not null"`
	Phone               string `gorm:"uniqueIndex;not null"` // Unique index on Phone
	Role                string `gorm:"default:'member'"`
	Status              string `gorm:"default:'active'"`
	JoinedAt            time.Time
	LastLoginAt         time.Time
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int  `gorm:"default:1"`
	PushEnabled         bool `gorm:"default:true"`
	EmailEnabled        bool `gorm:"default:true"`
	FCMToken            string
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role,omitempty"`
}

// FullName joins the user's names for notification templates.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// MonthsActive is the whole number of months since the user joined.
func (u *User) MonthsActive(now time.Time) int {
	joined := u.JoinedAt
	if joined.IsZero() {
		joined = u.CreatedAt
	}
	months := 0
	for d := joined.AddDate(0, 1, 0); !d.After(now); d = d.AddDate(0, 1, 0) {
		months++
	}
	return months
}
