package bookinglist

import (
	"context"

	"car-rental-admin/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BookingService is the booking API the controller reads from and writes to.
// Mutations report the HTTP status code; only 200 counts as success.
type BookingService interface {
	GetBookings(ctx context.Context, req dto.GetBookingsRequest, page, size int) (*dto.BookingPageResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) (int, error)
	DeleteBookings(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Notifier shows user-facing messages
type Notifier interface {
	Error(message string)
}

// GenericErrorMessage is the only error text users ever see
const GenericErrorMessage = "An unexpected error occurred. Please try again."

type logNotifier struct {
	log *logrus.Logger
}

func (n logNotifier) Error(message string) {
	n.log.Error(message)
}
