package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingFilter is a domain-level filter for querying bookings.
// Used by repository layer to avoid coupling with delivery DTOs.
type BookingFilter struct {
	Companies       []uuid.UUID
	Statuses        []BookingStatus
	Car             *uuid.UUID
	Driver          *uuid.UUID
	From            *time.Time // bookings starting at or after
	To              *time.Time // bookings ending at or before
	Keyword         string     // booking id, driver name or car name
	PickupLocation  *uuid.UUID
	DropOffLocation *uuid.UUID
}

// IsQueryable reports whether the filter can produce any row at all
func (f *BookingFilter) IsQueryable() bool {
	return f != nil && len(f.Companies) > 0 && len(f.Statuses) > 0
}
