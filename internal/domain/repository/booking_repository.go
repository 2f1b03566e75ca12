package repository

import (
	"context"

	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	FindPage(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Booking, error)
	UpdateStatus(db *gorm.DB, ids []uuid.UUID, status entity.BookingStatus) (int64, error)
	DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error)
}
