package usecase

import (
	"context"
	"errors"
	"time"

	"car-rental-admin/internal/converter"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/domain/repository"
	"car-rental-admin/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MaxBookingPageSize = 100

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingNotOwned = errors.New("booking belongs to another supplier")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrInvalidPage     = errors.New("page must be >= 0 and size between 1 and 100")
	ErrForbidden       = errors.New("forbidden")
)

type BookingUsecase interface {
	GetBookings(ctx context.Context, caller Caller, req *dto.GetBookingsRequest, page, size int) (*dto.BookingPageResponse, error)
	UpdateStatus(ctx context.Context, caller Caller, req *dto.UpdateStatusRequest) error
	DeleteBookings(ctx context.Context, caller Caller, req *dto.DeleteBookingsRequest) error
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	cacheService service.BookingCacheService
	eventService service.BookingEventService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	cacheService service.BookingCacheService,
	eventService service.BookingEventService,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		cacheService: cacheService,
		eventService: eventService,
	}
}

func (u *bookingUsecase) GetBookings(ctx context.Context, caller Caller, req *dto.GetBookingsRequest, page, size int) (*dto.BookingPageResponse, error) {
	if page < 0 || size < 1 || size > MaxBookingPageSize {
		return nil, ErrInvalidPage
	}
	if !caller.IsAdmin() && !caller.IsSupplier() {
		return nil, ErrForbidden
	}

	scoped := *req
	if caller.IsSupplier() {
		scoped.Companies = restrictCompanies(req.Companies, caller.UserID)
	}

	filter := converter.BookingRequestToFilter(&scoped)
	if !filter.IsQueryable() {
		return emptyBookingPage(), nil
	}

	key, err := u.cacheService.PageKey(ctx, caller.scope(), &scoped, page, size)
	if err != nil {
		u.log.Warnf("Failed to build booking cache key: %+v", err)
	} else if cached, ok := u.cacheService.GetPage(ctx, key); ok {
		return cached, nil
	}

	bookings, total, err := u.bookingRepo.FindPage(ctx, u.db, filter, size, page*size)
	if err != nil {
		u.log.Warnf("Failed to find bookings: %+v", err)
		return nil, err
	}

	result := &dto.BookingPageResponse{
		ResultData: converter.BookingsToResponses(bookings),
		PageInfo:   dto.PageInfo{TotalRecords: total},
	}

	if key != "" {
		u.cacheService.SetPage(ctx, key, result)
	}

	return result, nil
}

func (u *bookingUsecase) UpdateStatus(ctx context.Context, caller Caller, req *dto.UpdateStatusRequest) error {
	status := entity.BookingStatus(req.Status)
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return ErrBookingNotFound
	}

	var companies []uuid.UUID
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, err := u.loadOwned(tx, caller, ids)
		if err != nil {
			return err
		}
		companies = companiesOf(bookings)

		if _, err := u.bookingRepo.UpdateStatus(tx, ids, status); err != nil {
			u.log.Warnf("Failed to update booking status: %+v", err)
			return err
		}

		entries := make([]service.AuditEntry, 0, len(bookings))
		for _, b := range bookings {
			entries = append(entries, service.AuditEntry{
				EntityID: b.ID.String(),
				OldValue: string(b.Status),
				NewValue: string(status),
			})
		}
		return u.auditService.LogUpdates(ctx, tx, &caller.UserID, entity.AuditActionBookingStatusUpdate, entity.AuditEntityBooking, entries)
	})
	if err != nil {
		return err
	}

	u.afterMutation(ctx, dto.BookingEvent{
		Type:      dto.BookingEventStatusUpdated,
		IDs:       ids,
		Companies: companies,
		Status:    string(status),
		Actor:     caller.UserID,
		Timestamp: time.Now(),
	})
	return nil
}

func (u *bookingUsecase) DeleteBookings(ctx context.Context, caller Caller, req *dto.DeleteBookingsRequest) error {
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return ErrBookingNotFound
	}

	var companies []uuid.UUID
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, err := u.loadOwned(tx, caller, ids)
		if err != nil {
			return err
		}
		companies = companiesOf(bookings)

		if _, err := u.bookingRepo.DeleteByIDs(tx, ids); err != nil {
			u.log.Warnf("Failed to delete bookings: %+v", err)
			return err
		}

		entries := make([]service.AuditEntry, 0, len(bookings))
		for _, b := range bookings {
			entries = append(entries, service.AuditEntry{
				EntityID: b.ID.String(),
				OldValue: converter.BookingToResponse(&b),
			})
		}
		return u.auditService.LogDeletes(ctx, tx, &caller.UserID, entity.AuditActionBookingDelete, entity.AuditEntityBooking, entries)
	})
	if err != nil {
		return err
	}

	u.afterMutation(ctx, dto.BookingEvent{
		Type:      dto.BookingEventDeleted,
		IDs:       ids,
		Companies: companies,
		Actor:     caller.UserID,
		Timestamp: time.Now(),
	})
	return nil
}

// loadOwned requires every id to exist and, for a supplier, to belong to it
func (u *bookingUsecase) loadOwned(tx *gorm.DB, caller Caller, ids []uuid.UUID) ([]entity.Booking, error) {
	if !caller.IsAdmin() && !caller.IsSupplier() {
		return nil, ErrForbidden
	}

	bookings, err := u.bookingRepo.FindByIDs(tx, ids)
	if err != nil {
		u.log.Warnf("Failed to find bookings by ids: %+v", err)
		return nil, err
	}
	if len(bookings) != len(ids) {
		return nil, ErrBookingNotFound
	}

	if caller.IsSupplier() {
		for i := range bookings {
			if !bookings[i].BelongsTo(caller.UserID) {
				return nil, ErrBookingNotOwned
			}
		}
	}
	return bookings, nil
}

// afterMutation runs once the transaction is committed; failures here do not undo the change
func (u *bookingUsecase) afterMutation(ctx context.Context, event dto.BookingEvent) {
	if err := u.cacheService.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate booking cache: %+v", err)
	}
	if err := u.eventService.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish booking event: %+v", err)
	}
}

func emptyBookingPage() *dto.BookingPageResponse {
	return &dto.BookingPageResponse{ResultData: []dto.BookingResponse{}}
}

// restrictCompanies keeps only the supplier's own company out of the requested ones
func restrictCompanies(requested []uuid.UUID, self uuid.UUID) []uuid.UUID {
	for _, id := range requested {
		if id == self {
			return []uuid.UUID{self}
		}
	}
	return []uuid.UUID{}
}

func companiesOf(bookings []entity.Booking) []uuid.UUID {
	ids := make([]uuid.UUID, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].CompanyID
	}
	return uniqueIDs(ids)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
