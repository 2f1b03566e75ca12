package bookinglist

import (
	"math"
	"strings"
	"time"

	"car-rental-admin/internal/delivery/dto"

	"github.com/google/uuid"
)

// Card is the mobile view model of one booking
type Card struct {
	Index           int
	ID              uuid.UUID
	Status          string
	CarID           uuid.UUID
	CarName         string
	DriverID        uuid.UUID
	DriverName      string
	Days            int
	From            time.Time
	To              time.Time
	PickupLocation  string
	DropOffLocation string
	SupplierName    string
	SupplierAvatar  string
	Price           string
	Options         []string
}

// Cards builds the mobile cards in row order; Index is what RequestMobileDelete expects
func (c *Controller) Cards() []Card {
	c.mu.Lock()
	rows := c.rows
	c.mu.Unlock()

	cards := make([]Card, len(rows))
	for i := range rows {
		cards[i] = NewCard(i, &rows[i], c.cfg.CDNUsers, c.cfg.Currency)
	}
	return cards
}

func NewCard(index int, b *dto.BookingResponse, cdnUsers, currency string) Card {
	card := Card{
		Index:   index,
		ID:      b.ID,
		Status:  b.Status,
		Days:    Days(b.From, b.To),
		From:    b.From,
		To:      b.To,
		Price:   FormatPrice(b.Price, currency),
		Options: Options(b),
	}
	if b.Car != nil {
		card.CarID, card.CarName = b.Car.ID, b.Car.Name
	}
	if b.Driver != nil {
		card.DriverID, card.DriverName = b.Driver.ID, b.Driver.FullName
	}
	if b.PickupLocation != nil {
		card.PickupLocation = b.PickupLocation.Name
	}
	if b.DropOffLocation != nil {
		card.DropOffLocation = b.DropOffLocation.Name
	}
	if b.Company != nil {
		card.SupplierName = b.Company.FullName
		card.SupplierAvatar = AvatarURL(cdnUsers, b.Company.Avatar)
	}
	return card
}

// Days counts rental days, a started day counting as a full one
func Days(from, to time.Time) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// Options names the extras booked with b
func Options(b *dto.BookingResponse) []string {
	var opts []string
	if b.Cancellation {
		opts = append(opts, "Cancellation")
	}
	if b.Amendments {
		opts = append(opts, "Amendments")
	}
	if b.CollisionDamageWaiver {
		opts = append(opts, "Collision damage waiver")
	}
	if b.TheftProtection {
		opts = append(opts, "Theft protection")
	}
	if b.FullInsurance {
		opts = append(opts, "Full insurance")
	}
	if b.AdditionalDriver {
		opts = append(opts, "Additional driver")
	}
	return opts
}

// AvatarURL joins an avatar file name onto the users CDN base
func AvatarURL(cdnUsers, avatar string) string {
	if avatar == "" {
		return ""
	}
	if strings.HasPrefix(avatar, "http://") || strings.HasPrefix(avatar, "https://") {
		return avatar
	}
	return strings.TrimRight(cdnUsers, "/") + "/" + strings.TrimLeft(avatar, "/")
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
