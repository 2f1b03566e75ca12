package converter

import (
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                    booking.ID,
		From:                  booking.From,
		To:                    booking.To,
		Price:                 booking.Price,
		Status:                string(booking.Status),
		Cancellation:          booking.Cancellation,
		Amendments:            booking.Amendments,
		CollisionDamageWaiver: booking.CollisionDamageWaiver,
		TheftProtection:       booking.TheftProtection,
		FullInsurance:         booking.FullInsurance,
		AdditionalDriver:      booking.AdditionalDriver,
	}

	// Include relations only when preloaded
	if booking.Company.ID != uuid.Nil {
		response.Company = UserToSummary(&booking.Company)
	}
	if booking.Driver.ID != uuid.Nil {
		response.Driver = UserToSummary(&booking.Driver)
	}
	if booking.Car.ID != uuid.Nil {
		response.Car = &dto.CarSummary{
			ID:    booking.Car.ID,
			Name:  booking.Car.Name,
			Image: booking.Car.Image,
		}
	}
	if booking.PickupLocation.ID != uuid.Nil {
		response.PickupLocation = &dto.LocationSummary{ID: booking.PickupLocation.ID, Name: booking.PickupLocation.Name}
	}
	if booking.DropOffLocation.ID != uuid.Nil {
		response.DropOffLocation = &dto.LocationSummary{ID: booking.DropOffLocation.ID, Name: booking.DropOffLocation.Name}
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

// BookingRequestToFilter maps a search payload onto the domain filter
func BookingRequestToFilter(req *dto.GetBookingsRequest) *entity.BookingFilter {
	filter := &entity.BookingFilter{
		Companies: req.Companies,
		Car:       req.Car,
		Driver:    req.User,
	}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, entity.BookingStatus(s))
	}
	if req.Filter != nil {
		filter.From = req.Filter.From
		filter.To = req.Filter.To
		filter.Keyword = req.Filter.Keyword
		filter.PickupLocation = req.Filter.PickupLocation
		filter.DropOffLocation = req.Filter.DropOffLocation
	}
	return filter
}
