package repository

import (
	"context"
	"errors"

	"car-rental-admin/internal/domain/entity"
	domainRepo "car-rental-admin/internal/domain/repository"

	"gorm.io/gorm"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

// FindByName returns nil, nil when no role has that name
func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	if err := db.WithContext(ctx).Where("role_name = ?", name).Take(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}
