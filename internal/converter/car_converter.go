package converter

import (
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
)

func CarToResponse(car *entity.Car) *dto.CarResponse {
	if car == nil {
		return nil
	}

	response := &dto.CarResponse{
		ID:        car.ID,
		Name:      car.Name,
		Image:     car.Image,
		Price:     car.Price,
		Available: car.Available,
	}
	if car.Company.ID != uuid.Nil {
		response.Company = UserToSummary(&car.Company)
	}
	return response
}

func CarsToResponses(cars []entity.Car) []dto.CarResponse {
	responses := make([]dto.CarResponse, len(cars))
	for i := range cars {
		responses[i] = *CarToResponse(&cars[i])
	}
	return responses
}
