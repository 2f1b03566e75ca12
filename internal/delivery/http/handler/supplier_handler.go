package handler

import (
	"net/http"

	"car-rental-admin/internal/usecase"
	"car-rental-admin/pkg/response"
)

type SupplierHandler struct {
	supplierUsecase usecase.SupplierUsecase
}

func NewSupplierHandler(supplierUsecase usecase.SupplierUsecase) *SupplierHandler {
	return &SupplierHandler{supplierUsecase: supplierUsecase}
}

// GetAllSuppliers lists the rental companies visible to the caller
// @Router /suppliers [get]
func (h *SupplierHandler) GetAllSuppliers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	suppliers, err := h.supplierUsecase.GetAllSuppliers(r.Context(), caller)
	if err != nil {
		if err == usecase.ErrUserNotFound {
			response.NotFound(w, "Supplier not found")
			return
		}
		response.InternalServerError(w, "Failed to get suppliers")
		return
	}

	response.Success(w, http.StatusOK, "Suppliers retrieved successfully", suppliers)
}
