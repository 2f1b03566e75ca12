package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// BookingFilterRequest narrows a booking search beyond companies and statuses
type BookingFilterRequest struct {
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	Keyword         string     `json:"keyword,omitempty" validate:"omitempty,max=100"`
	PickupLocation  *uuid.UUID `json:"pickup_location,omitempty"`
	DropOffLocation *uuid.UUID `json:"drop_off_location,omitempty"`
}

type GetBookingsRequest struct {
	Companies []uuid.UUID           `json:"companies"`
	Statuses  []string              `json:"statuses" validate:"dive,booking_status"`
	Filter    *BookingFilterRequest `json:"filter,omitempty"`
	Car       *uuid.UUID            `json:"car,omitempty"`
	User      *uuid.UUID            `json:"user,omitempty"`
}

type UpdateStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1"`
	Status string      `json:"status" validate:"required,booking_status"`
}

type DeleteBookingsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// Response DTOs

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar,omitempty"`
}

type CarSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

type LocationSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BookingResponse struct {
	ID              uuid.UUID        `json:"id"`
	Company         *UserSummary     `json:"company,omitempty"`
	Car             *CarSummary      `json:"car,omitempty"`
	Driver          *UserSummary     `json:"driver,omitempty"`
	PickupLocation  *LocationSummary `json:"pickup_location,omitempty"`
	DropOffLocation *LocationSummary `json:"drop_off_location,omitempty"`
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	Price           decimal.Decimal  `json:"price"`
	Status          string           `json:"status"`

	Cancellation          bool `json:"cancellation"`
	Amendments            bool `json:"amendments"`
	CollisionDamageWaiver bool `json:"collision_damage_waiver"`
	TheftProtection       bool `json:"theft_protection"`
	FullInsurance         bool `json:"full_insurance"`
	AdditionalDriver      bool `json:"additional_driver"`
}

type PageInfo struct {
	TotalRecords int64 `json:"total_records"`
}

// BookingPageResponse is one page of a booking search
type BookingPageResponse struct {
	ResultData []BookingResponse `json:"result_data"`
	PageInfo   PageInfo          `json:"page_info"`
}

// BookingEvent is pushed to live subscribers after a booking mutation
type BookingEvent struct {
	Type      string      `json:"type"`
	IDs       []uuid.UUID `json:"ids"`
	Companies []uuid.UUID `json:"companies"`
	Status    string      `json:"status,omitempty"`
	Actor     uuid.UUID   `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
}

// VisibleTo reports whether a supplier may receive the event
func (e BookingEvent) VisibleTo(companyID uuid.UUID) bool {
	for _, c := range e.Companies {
		if c == companyID {
			return true
		}
	}
	return false
}

const (
	BookingEventStatusUpdated = "status_updated"
	BookingEventDeleted       = "deleted"
)
