package repositories

import (
	"context"
	"errors"
	"thrift/internal/models"
)

var (
	ErrNoActivePolicy = errors.New("no active fee policy")
	ErrPolicyNotFound = errors.New("fee policy not found")
)

// FeePolicyRepository defines the interface for fee policy persistence.
// At most one policy row is active at a time; Activate supersedes all
// currently active rows atomically.
type FeePolicyRepository interface {
	// Activate deactivates every active policy and inserts the new one
	// with active=true, in a single transaction.
	Activate(ctx context.Context, policy *models.FeePolicy) error

	// GetActive returns the single active policy, or ErrNoActivePolicy.
	GetActive(ctx context.Context) (*models.FeePolicy, error)

	// GetByID retrieves a policy by its ID, superseded ones included.
	GetByID(ctx context.Context, id uint) (*models.FeePolicy, error)

	// History lists policies newest first, with pagination.
	History(ctx context.Context, offset, limit int) ([]models.FeePolicy, int64, error)
}

// Implementation is in fee_policy_repository_impl.go
