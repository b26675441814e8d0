package repositories

import (
	"context"
	"errors"
	"thrift/internal/models"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrInviteCodeTaken = errors.New("invite code already taken")
)

// GroupRepository defines the interface for savings group persistence.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	ListByCoordinator(ctx context.Context, coordinatorID uint) ([]models.Group, error)
}

// Implementation is in group_repository_impl.go
