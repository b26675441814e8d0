package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Fee administration permissions
	PermissionFeeConfigWrite = "fees:config"
	PermissionFeeRefund      = "fees:refund"
	PermissionFeeReport      = "fees:report"

	// Member permissions
	PermissionPaymentWrite   = "payment:write"
	PermissionPaymentRead    = "payment:read"
	PermissionGroupRead      = "group:read"
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionFeeConfigWrite,
			PermissionFeeRefund,
			PermissionFeeReport,
			PermissionPaymentRead,
			PermissionPaymentWrite,
			PermissionGroupRead,
			PermissionChangePassword,
		}
	case "coordinator":
		return []string{
			PermissionPaymentRead,
			PermissionPaymentWrite,
			PermissionGroupRead,
			PermissionChangePassword,
		}
	case "member":
		return []string{
			PermissionPaymentRead,
			PermissionPaymentWrite,
			PermissionGroupRead,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
