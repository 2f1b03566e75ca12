package repository

import (
	"context"

	"car-rental-admin/internal/domain/entity"

	"gorm.io/gorm"
)

// RoleRepository reads the roles seeded by the schema migrations
type RoleRepository interface {
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
}
