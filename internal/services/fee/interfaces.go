package fee

import (
	"context"
	"thrift/internal/models"
	"thrift/internal/repositories"
	"time"
)

// Service defines the fee calculation interface
type Service interface {
	// ComputeFee runs the requested strategy against the active policy and
	// returns the clamped fee.
	ComputeFee(ctx context.Context, req FeeRequest) (*FeeResult, error)
}

// PolicyProvider resolves the active fee policy.
type PolicyProvider interface {
	GetActive(ctx context.Context) (*models.FeePolicy, error)
}

// PaymentHistory exposes the contribution history lookups the discount
// strategies price on.
type PaymentHistory interface {
	VolumeSince(ctx context.Context, userID uint, since time.Time) (float64, error)
	SuccessfulCount(ctx context.Context, userID uint) (int64, error)
	ActivitySince(ctx context.Context, userID uint, since time.Time) (*repositories.PaymentActivity, error)
}

// GroupLookup resolves savings groups.
type GroupLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
}

// PromotionLookup resolves the promotion applicable to a contribution.
type PromotionLookup interface {
	GetActivePromotion(ctx context.Context, userID, groupID uint, at time.Time) (*models.Promotion, error)
}

// UserLookup resolves users for loyalty pricing.
type UserLookup interface {
	GetByID(id uint) (*models.User, error)
}
