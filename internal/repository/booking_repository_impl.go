package repository

import (
	"context"
	"strings"

	"car-rental-admin/internal/domain/entity"
	domainRepo "car-rental-admin/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

// FindPage returns one page of bookings matching the filter together with the total match count.
// Count and page queries run concurrently.
func (r *bookingRepository) FindPage(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	var bookings []entity.Booking
	var total int64

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := applyBookingFilter(db.WithContext(gctx).Model(&entity.Booking{}), filter)
		return query.Count(&total).Error
	})

	g.Go(func() error {
		query := applyBookingFilter(db.WithContext(gctx).Model(&entity.Booking{}), filter)
		return query.
			Preload("Company").
			Preload("Car").
			Preload("Driver").
			Preload("PickupLocation").
			Preload("DropOffLocation").
			Order("bookings.from_date DESC, bookings.id ASC").
			Limit(limit).
			Offset(offset).
			Find(&bookings).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func applyBookingFilter(query *gorm.DB, filter *entity.BookingFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	query = query.Where("bookings.company_id IN ?", filter.Companies).
		Where("bookings.status IN ?", filter.Statuses)

	if filter.Car != nil {
		query = query.Where("bookings.car_id = ?", *filter.Car)
	}
	if filter.Driver != nil {
		query = query.Where("bookings.driver_id = ?", *filter.Driver)
	}
	if filter.From != nil {
		query = query.Where("bookings.from_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bookings.to_date <= ?", *filter.To)
	}
	if filter.PickupLocation != nil {
		query = query.Where("bookings.pickup_location_id = ?", *filter.PickupLocation)
	}
	if filter.DropOffLocation != nil {
		query = query.Where("bookings.drop_off_location_id = ?", *filter.DropOffLocation)
	}
	if filter.Keyword != "" {
		if id, err := uuid.Parse(filter.Keyword); err == nil {
			query = query.Where("bookings.id = ?", id)
		} else {
			pattern := "%" + escapeLike(filter.Keyword) + "%"
			query = query.
				Joins("JOIN users drivers ON drivers.id = bookings.driver_id").
				Joins("JOIN cars ON cars.id = bookings.car_id").
				Where("drivers.full_name ILIKE ? OR cars.name ILIKE ?", pattern, pattern)
		}
	}

	return query
}

func (r *bookingRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("id IN ?", ids).Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus sets the status of every listed booking and returns affected rows
func (r *bookingRepository) UpdateStatus(db *gorm.DB, ids []uuid.UUID, status entity.BookingStatus) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) DeleteByIDs(db *gorm.DB, ids []uuid.UUID) (int64, error) {
	result := db.Where("id IN ?", ids).Delete(&entity.Booking{})
	return result.RowsAffected, result.Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a keyword match literally under LIKE/ILIKE's default backslash escape
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
