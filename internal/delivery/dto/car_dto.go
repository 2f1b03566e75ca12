package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CarResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
	Company   *UserSummary    `json:"company,omitempty"`
}

type SupplierListResponse struct {
	Suppliers []UserSummary `json:"suppliers"`
	Total     int           `json:"total"`
}
