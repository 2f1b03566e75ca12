package repository

import (
	"context"
	"errors"

	"car-rental-admin/internal/domain/entity"
	domainRepo "car-rental-admin/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) domainRepo.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) scoped(ctx context.Context, companies []uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Car{})
	if len(companies) > 0 {
		query = query.Where("company_id IN ?", companies)
	}
	return query
}

func (r *carRepository) FindAll(ctx context.Context, companies []uuid.UUID, limit, offset int) ([]entity.Car, int64, error) {
	var cars []entity.Car
	var total int64

	if err := r.scoped(ctx, companies).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.scoped(ctx, companies).Preload("Company").Limit(limit).Offset(offset).Order("name ASC").Find(&cars).Error; err != nil {
		return nil, 0, err
	}

	return cars, total, nil
}

func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	var car entity.Car
	err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &car, nil
}
