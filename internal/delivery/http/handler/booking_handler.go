package handler

import (
	"errors"
	"net/http"
	"strconv"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/usecase"
	"car-rental-admin/pkg/response"
	"car-rental-admin/pkg/validator"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// GetBookings returns one page of bookings matching the search payload
// @Router /bookings/{page}/{size} [post]
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		response.BadRequest(w, "Invalid page")
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		response.BadRequest(w, "Invalid page size")
		return
	}

	var req dto.GetBookingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bookingUsecase.GetBookings(r.Context(), caller, &req, page, size)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPage):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to get bookings")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", result)
}

// UpdateStatus sets the status of several bookings at once
// @Router /bookings/status [post]
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.bookingUsecase.UpdateStatus(r.Context(), caller, &req); err != nil {
		h.writeMutationError(w, err, "Failed to update bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings updated successfully", nil)
}

// DeleteBookings removes several bookings at once
// @Router /bookings/delete [post]
func (h *BookingHandler) DeleteBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.DeleteBookingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.bookingUsecase.DeleteBookings(r.Context(), caller, &req); err != nil {
		h.writeMutationError(w, err, "Failed to delete bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings deleted successfully", nil)
}

func (h *BookingHandler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidStatus):
		response.BadRequest(w, "Invalid booking status")
	case errors.Is(err, usecase.ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, usecase.ErrBookingNotOwned), errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}
