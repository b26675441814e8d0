package repositories

import (
	"context"
	"strings"
	"thrift/internal/models"

	"gorm.io/gorm"
)

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new instance of GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrInviteCodeTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGroupNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &group, nil
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGroupNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *groupRepository) ListByCoordinator(ctx context.Context, coordinatorID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).
		Where("coordinator_id = ?", coordinatorID).
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return groups, nil
}
