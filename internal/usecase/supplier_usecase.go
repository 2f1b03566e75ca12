package usecase

import (
	"context"

	"car-rental-admin/internal/converter"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SupplierUsecase lists the rental companies that feed the company filter
type SupplierUsecase interface {
	GetAllSuppliers(ctx context.Context, caller Caller) (*dto.SupplierListResponse, error)
}

type supplierUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewSupplierUsecase(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository) SupplierUsecase {
	return &supplierUsecase{
		db:       db,
		log:      log,
		userRepo: userRepo,
	}
}

func (u *supplierUsecase) GetAllSuppliers(ctx context.Context, caller Caller) (*dto.SupplierListResponse, error) {
	db := u.db.WithContext(ctx)

	if caller.IsSupplier() {
		self, err := u.userRepo.FindByID(db, caller.UserID)
		if err != nil {
			u.log.Warnf("Failed to find supplier: %+v", err)
			return nil, err
		}
		if self == nil {
			return nil, ErrUserNotFound
		}
		return &dto.SupplierListResponse{
			Suppliers: converter.UsersToSummaries([]entity.User{*self}),
			Total:     1,
		}, nil
	}

	suppliers, err := u.userRepo.FindByRole(db, entity.RoleIDSupplier)
	if err != nil {
		u.log.Warnf("Failed to find all suppliers: %+v", err)
		return nil, err
	}

	return &dto.SupplierListResponse{
		Suppliers: converter.UsersToSummaries(suppliers),
		Total:     len(suppliers),
	}, nil
}
