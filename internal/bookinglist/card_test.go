package bookinglist

import (
	"testing"
	"time"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, Days(from, from.Add(72*time.Hour)))
	assert.Equal(t, 4, Days(from, from.Add(73*time.Hour)))
	assert.Equal(t, 0, Days(from, from))
	assert.Equal(t, 0, Days(time.Time{}, from))
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "http://cdn/users/a.png", AvatarURL("http://cdn/users/", "/a.png"))
	assert.Equal(t, "http://cdn/users/a.png", AvatarURL("http://cdn/users", "a.png"))
	assert.Equal(t, "https://img.example.com/a.png", AvatarURL("http://cdn/users", "https://img.example.com/a.png"))
	assert.Equal(t, "", AvatarURL("http://cdn/users", ""))
}

func TestNewCard(t *testing.T) {
	b := &dto.BookingResponse{
		ID:              uuid.New(),
		Company:         &dto.UserSummary{ID: uuid.New(), FullName: "Rent Co", Avatar: "co.png"},
		Car:             &dto.CarSummary{ID: uuid.New(), Name: "Clio"},
		Driver:          &dto.UserSummary{ID: uuid.New(), FullName: "Ada"},
		PickupLocation:  &dto.LocationSummary{Name: "Airport"},
		DropOffLocation: &dto.LocationSummary{Name: "Station"},
		From:            time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		To:              time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC),
		Price:           decimal.NewFromInt(150),
		Status:          "reserved",
		Cancellation:    true,
		FullInsurance:   true,
	}

	card := NewCard(3, b, "http://cdn/users", "$")

	assert.Equal(t, 3, card.Index)
	assert.Equal(t, b.ID, card.ID)
	assert.Equal(t, "Clio", card.CarName)
	assert.Equal(t, b.Car.ID, card.CarID)
	assert.Equal(t, "Ada", card.DriverName)
	assert.Equal(t, 3, card.Days)
	assert.Equal(t, "Airport", card.PickupLocation)
	assert.Equal(t, "Station", card.DropOffLocation)
	assert.Equal(t, "Rent Co", card.SupplierName)
	assert.Equal(t, "http://cdn/users/co.png", card.SupplierAvatar)
	assert.Equal(t, "150 $", card.Price)
	assert.Equal(t, []string{"Cancellation", "Full insurance"}, card.Options)
}

func TestControllerCardsIndexRows(t *testing.T) {
	f := newFixture(t, Mobile)
	rows := bookings(3, entity.BookingStatusPaid)
	f.svc.pages[0] = rows
	f.query(t)

	cards := f.ctrl.Cards()
	require.Len(t, cards, 3)
	for i, card := range cards {
		assert.Equal(t, i, card.Index)
		assert.Equal(t, rows[i].ID, card.ID)
	}
}
