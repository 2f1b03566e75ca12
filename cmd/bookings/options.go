package main

import (
	"errors"
	"fmt"
	"time"

	"car-rental-admin/internal/bookinglist"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const defaultTimeout = time.Minute

type options struct {
	API      string
	Email    string
	Password string
	Device   bookinglist.DeviceClass
	LogLevel string
	Timeout  time.Duration

	Page           int
	PageSize       int
	MobilePageSize int
	ScrollOffset   int

	Companies []uuid.UUID
	Statuses  []entity.BookingStatus
	Keyword   string
	Car       *uuid.UUID
	User      *uuid.UUID

	Columns  bookinglist.ColumnOptions
	CDNUsers string
	Currency string
}

func loadOptions(v *viper.Viper) (*options, error) {
	device, err := bookinglist.ParseDeviceClass(v.GetString("device"))
	if err != nil {
		return nil, err
	}

	opts := &options{
		API:            v.GetString("api"),
		Email:          v.GetString("email"),
		Password:       v.GetString("password"),
		Device:         device,
		LogLevel:       v.GetString("log-level"),
		Timeout:        v.GetDuration("timeout"),
		Page:           v.GetInt("page"),
		PageSize:       v.GetInt("page-size"),
		MobilePageSize: v.GetInt("mobile-page-size"),
		ScrollOffset:   v.GetInt("scroll-offset"),
		Keyword:        v.GetString("keyword"),
		Columns: bookinglist.ColumnOptions{
			HideDates:         v.GetBool("hide-dates"),
			HideCarColumn:     v.GetBool("hide-car"),
			HideCompanyColumn: v.GetBool("hide-company"),
		},
		CDNUsers: v.GetString("cdn-users"),
		Currency: v.GetString("currency"),
	}

	if opts.Email == "" || opts.Password == "" {
		return nil, errors.New("--email and --password are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Page < 0 {
		return nil, fmt.Errorf("--page must be >= 0")
	}

	if opts.Companies, err = parseIDs(v.GetStringSlice("company")); err != nil {
		return nil, fmt.Errorf("--company: %w", err)
	}
	if opts.Statuses, err = parseStatuses(v.GetStringSlice("status")); err != nil {
		return nil, fmt.Errorf("--status: %w", err)
	}
	if opts.Car, err = parseOptionalID(v.GetString("car")); err != nil {
		return nil, fmt.Errorf("--car: %w", err)
	}
	if opts.User, err = parseOptionalID(v.GetString("user")); err != nil {
		return nil, fmt.Errorf("--user: %w", err)
	}

	return opts, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	return &id, nil
}

// parseStatuses defaults to every status when none is given
func parseStatuses(raw []string) ([]entity.BookingStatus, error) {
	if len(raw) == 0 {
		return append([]entity.BookingStatus(nil), entity.BookingStatuses...), nil
	}
	statuses := make([]entity.BookingStatus, 0, len(raw))
	for _, s := range raw {
		status := entity.BookingStatus(s)
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown status %q", s)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
