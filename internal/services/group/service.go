// Package group manages rotating savings groups: creation by a
// coordinator, invite-code lookup for joining members, and the
// coordinator's group listing.
package group

import (
	"context"
	"errors"
	"fmt"
	"time"

	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/utils"
)

// Service errors
var (
	ErrInvalidGroup  = errors.New("invalid group data")
	ErrGroupNotFound = errors.New("group not found")
)

// CreateGroupRequest is the coordinator's payload for a new group.
type CreateGroupRequest struct {
	Name               string    `json:"name"`
	ContributionAmount float64   `json:"contribution_amount"`
	Frequency          string    `json:"frequency"`
	TotalMembers       int       `json:"total_members"`
	StartDate          time.Time `json:"start_date"`
}

// Service manages savings groups.
type Service interface {
	// CreateGroup creates a group with a fresh invite code.
	CreateGroup(ctx context.Context, coordinatorID uint, req CreateGroupRequest) (*models.Group, error)

	// GetGroup fetches a single group.
	GetGroup(ctx context.Context, id uint) (*models.Group, error)

	// GetByInviteCode resolves the group behind a shared invite code.
	GetByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListCoordinatorGroups lists the groups a coordinator runs.
	ListCoordinatorGroups(ctx context.Context, coordinatorID uint) ([]models.Group, error)
}

type service struct {
	groups repositories.GroupRepository
}

// NewService creates a new group service
func NewService(groups repositories.GroupRepository) Service {
	if groups == nil {
		panic("group repository is required")
	}
	return &service{groups: groups}
}

func (s *service) CreateGroup(ctx context.Context, coordinatorID uint, req CreateGroupRequest) (*models.Group, error) {
	if req.Name == "" || req.ContributionAmount <= 0 || req.TotalMembers < 2 {
		return nil, ErrInvalidGroup
	}

	frequency := req.Frequency
	switch frequency {
	case models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly:
	case "":
		frequency = models.FrequencyMonthly
	default:
		return nil, ErrInvalidGroup
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	group := &models.Group{
		Name:               req.Name,
		CoordinatorID:      coordinatorID,
		ContributionAmount: req.ContributionAmount,
		Frequency:          frequency,
		MemberCount:        1,
		TotalMembers:       req.TotalMembers,
		Status:             "active",
		StartDate:          startDate,
	}

	// Invite codes are unique; retry on the rare collision.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}
		group.InviteCode = code

		err = s.groups.Create(ctx, group)
		if err == nil {
			return group, nil
		}
		if !errors.Is(err, repositories.ErrInviteCodeTaken) {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	}
	return nil, repositories.ErrInviteCodeTaken
}

func (s *service) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (s *service) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	group, err := s.groups.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}
	return group, nil
}

func (s *service) ListCoordinatorGroups(ctx context.Context, coordinatorID uint) ([]models.Group, error) {
	return s.groups.ListByCoordinator(ctx, coordinatorID)
}
