package repository

import (
	"context"

	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
)

type CarRepository interface {
	FindAll(ctx context.Context, companies []uuid.UUID, limit, offset int) ([]entity.Car, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error)
}
