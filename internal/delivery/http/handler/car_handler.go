package handler

import (
	"net/http"

	"car-rental-admin/internal/usecase"
	"car-rental-admin/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CarHandler serves the fleet lookups behind the car filter
type CarHandler struct {
	carUsecase usecase.CarUsecase
}

func NewCarHandler(carUsecase usecase.CarUsecase) *CarHandler {
	return &CarHandler{carUsecase: carUsecase}
}

// GetAll handles getting cars
// @Summary Get cars
// @Description Get cars with pagination, optionally narrowed to some suppliers
// @Tags Cars
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param company query string false "Supplier id, repeatable"
// @Success 200 {object} response.Response
// @Router /cars [get]
func (h *CarHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var companies []uuid.UUID
	for _, raw := range r.URL.Query()["company"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid company ID")
			return
		}
		companies = append(companies, id)
	}

	cars, total, err := h.carUsecase.GetAll(r.Context(), caller, companies, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get cars")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Cars retrieved successfully", cars, response.NewMeta(page, limit, total))
}

func (h *CarHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid car ID")
		return
	}

	car, err := h.carUsecase.GetByID(r.Context(), caller, id)
	if err != nil {
		if err == usecase.ErrCarNotFound {
			response.NotFound(w, "Car not found")
			return
		}
		response.InternalServerError(w, "Failed to get car")
		return
	}

	response.Success(w, http.StatusOK, "Car retrieved successfully", car)
}
