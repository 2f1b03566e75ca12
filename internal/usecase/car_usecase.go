package usecase

import (
	"context"
	"errors"

	"car-rental-admin/internal/converter"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrCarNotFound = errors.New("car not found")
)

type CarUsecase interface {
	GetAll(ctx context.Context, caller Caller, companies []uuid.UUID, page, limit int) ([]dto.CarResponse, int64, error)
	GetByID(ctx context.Context, caller Caller, id uuid.UUID) (*dto.CarResponse, error)
}

type carUsecase struct {
	log     *logrus.Logger
	carRepo repository.CarRepository
}

func NewCarUsecase(log *logrus.Logger, carRepo repository.CarRepository) CarUsecase {
	return &carUsecase{log: log, carRepo: carRepo}
}

func (u *carUsecase) GetAll(ctx context.Context, caller Caller, companies []uuid.UUID, page, limit int) ([]dto.CarResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Suppliers only see their own fleet
	if caller.IsSupplier() {
		companies = []uuid.UUID{caller.UserID}
	}

	offset := (page - 1) * limit

	cars, total, err := u.carRepo.FindAll(ctx, companies, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find cars: %+v", err)
		return nil, 0, err
	}

	return converter.CarsToResponses(cars), total, nil
}

func (u *carUsecase) GetByID(ctx context.Context, caller Caller, id uuid.UUID) (*dto.CarResponse, error) {
	car, err := u.carRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find car: %+v", err)
		return nil, err
	}
	if car == nil || (caller.IsSupplier() && car.CompanyID != caller.UserID) {
		return nil, ErrCarNotFound
	}

	return converter.CarToResponse(car), nil
}
