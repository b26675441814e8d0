// Package feepolicy manages the admin-controlled service fee configuration.
// Exactly one policy is active at a time; activating a new one supersedes
// the old atomically and the old rows stay behind as the audit trail.
package feepolicy

import (
	"context"
	"errors"
	"fmt"

	"thrift/internal/models"
	"thrift/internal/repositories"
)

// Service errors
var (
	ErrInvalidConfig  = errors.New("invalid fee configuration")
	ErrNoActivePolicy = repositories.ErrNoActivePolicy
)

// UpdateConfigRequest is the admin payload for activating a new policy.
type UpdateConfigRequest struct {
	PercentageRate    float64 `json:"percentage_rate"`
	FlatAmount        float64 `json:"flat_amount"`
	MinimumFee        float64 `json:"minimum_fee"`
	MaximumFee        float64 `json:"maximum_fee"`
	IsPercentageBased bool    `json:"is_percentage_based"`
}

// Service manages fee policy lifecycle.
type Service interface {
	// Activate validates the request and makes it the single active policy.
	Activate(ctx context.Context, req UpdateConfigRequest, adminID uint) (*models.FeePolicy, error)

	// GetActive returns the active policy, ErrNoActivePolicy when none.
	GetActive(ctx context.Context) (*models.FeePolicy, error)

	// History lists past and present policies, newest first.
	History(ctx context.Context, offset, limit int) ([]models.FeePolicy, int64, error)
}

type service struct {
	repo repositories.FeePolicyRepository
}

// NewService creates a new fee policy service
func NewService(repo repositories.FeePolicyRepository) Service {
	if repo == nil {
		panic("fee policy repository is required")
	}
	return &service{repo: repo}
}

func (s *service) Activate(ctx context.Context, req UpdateConfigRequest, adminID uint) (*models.FeePolicy, error) {
	policy := &models.FeePolicy{
		PercentageRate:    req.PercentageRate,
		FlatAmount:        req.FlatAmount,
		MinimumFee:        req.MinimumFee,
		MaximumFee:        req.MaximumFee,
		IsPercentageBased: req.IsPercentageBased,
		UpdatedBy:         adminID,
		Active:            true,
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := s.repo.Activate(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to activate fee policy: %w", err)
	}
	return policy, nil
}

func (s *service) GetActive(ctx context.Context) (*models.FeePolicy, error) {
	policy, err := s.repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActivePolicy) {
			return nil, ErrNoActivePolicy
		}
		return nil, fmt.Errorf("failed to get active fee policy: %w", err)
	}
	return policy, nil
}

func (s *service) History(ctx context.Context, offset, limit int) ([]models.FeePolicy, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.History(ctx, offset, limit)
}
