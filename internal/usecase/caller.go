package usecase

import (
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// Caller is the authenticated user on whose behalf a usecase runs
type Caller struct {
	UserID uuid.UUID
	RoleID int
}

func (c Caller) IsAdmin() bool {
	return c.RoleID == entity.RoleIDAdmin
}

func (c Caller) IsSupplier() bool {
	return c.RoleID == entity.RoleIDSupplier
}

// scope names the data visibility of the caller for cache keys
func (c Caller) scope() string {
	if c.IsAdmin() {
		return "admin"
	}
	return "supplier:" + c.UserID.String()
}
