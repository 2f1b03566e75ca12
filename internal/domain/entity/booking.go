package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a car rental booking
type BookingStatus string

const (
	BookingStatusVoid      BookingStatus = "void"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusDeposit   BookingStatus = "deposit"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every status in display order
var BookingStatuses = []BookingStatus{
	BookingStatusVoid,
	BookingStatusPending,
	BookingStatusDeposit,
	BookingStatusPaid,
	BookingStatusReserved,
	BookingStatusCancelled,
}

// IsValid reports whether s is one of the known statuses
func (s BookingStatus) IsValid() bool {
	for _, status := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Booking represents a car rental booking made by a driver with a supplier company
type Booking struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	CarID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"car_id"`
	DriverID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"driver_id"`
	PickupLocationID  uuid.UUID       `gorm:"type:uuid;not null" json:"pickup_location_id"`
	DropOffLocationID uuid.UUID       `gorm:"type:uuid;not null" json:"drop_off_location_id"`
	From              time.Time       `gorm:"column:from_date;not null;index" json:"from"`
	To                time.Time       `gorm:"column:to_date;not null" json:"to"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Status            BookingStatus   `gorm:"type:booking_status;not null;default:'pending';index" json:"status"`

	Cancellation          bool `gorm:"not null;default:false" json:"cancellation"`
	Amendments            bool `gorm:"not null;default:false" json:"amendments"`
	CollisionDamageWaiver bool `gorm:"not null;default:false" json:"collision_damage_waiver"`
	TheftProtection       bool `gorm:"not null;default:false" json:"theft_protection"`
	FullInsurance         bool `gorm:"not null;default:false" json:"full_insurance"`
	AdditionalDriver      bool `gorm:"not null;default:false" json:"additional_driver"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Company         User     `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Car             Car      `gorm:"foreignKey:CarID" json:"car,omitempty"`
	Driver          User     `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	PickupLocation  Location `gorm:"foreignKey:PickupLocationID" json:"pickup_location,omitempty"`
	DropOffLocation Location `gorm:"foreignKey:DropOffLocationID" json:"drop_off_location,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BelongsTo reports whether the booking was made with the given supplier
func (b *Booking) BelongsTo(companyID uuid.UUID) bool {
	return b.CompanyID == companyID
}
