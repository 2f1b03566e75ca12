package bookinglist

import (
	"strings"

	"car-rental-admin/internal/delivery/dto"

	"github.com/shopspring/decimal"
)

type ColumnOptions struct {
	HideDates         bool
	HideCarColumn     bool
	HideCompanyColumn bool
}

type ColumnField string

const (
	ColumnCompany ColumnField = "company"
	ColumnCar     ColumnField = "car"
	ColumnDriver  ColumnField = "driver"
	ColumnFrom    ColumnField = "from"
	ColumnTo      ColumnField = "to"
	ColumnPrice   ColumnField = "price"
	ColumnStatus  ColumnField = "status"
	ColumnAction  ColumnField = "action"
)

// Column is one desktop grid column. On the action column, BulkActions swaps the
// per-row edit/delete buttons for header buttons acting on the selection.
type Column struct {
	Field       ColumnField
	Header      string
	BulkActions bool
}

const dateLayout = "02-01-2006"

// DeriveColumns lists the desktop columns for the given flags
func DeriveColumns(opts ColumnOptions, admin, hasSelection bool) []Column {
	columns := make([]Column, 0, 8)

	if admin && !opts.HideCompanyColumn {
		columns = append(columns, Column{Field: ColumnCompany, Header: "Supplier"})
	}
	if !opts.HideCarColumn {
		columns = append(columns, Column{Field: ColumnCar, Header: "Car"})
	}
	columns = append(columns, Column{Field: ColumnDriver, Header: "Driver"})
	if !opts.HideDates {
		columns = append(columns,
			Column{Field: ColumnFrom, Header: "From"},
			Column{Field: ColumnTo, Header: "To"},
		)
	}
	columns = append(columns,
		Column{Field: ColumnPrice, Header: "Price"},
		Column{Field: ColumnStatus, Header: "Status"},
		Column{Field: ColumnAction, BulkActions: hasSelection},
	)

	return columns
}

// Columns derives the columns from the controller's current flags and selection
func (c *Controller) Columns() []Column {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DeriveColumns(c.cfg.Columns, c.isAdminLocked(), len(c.selection) > 0)
}

// Value renders the cell text of b in this column
func (col Column) Value(b *dto.BookingResponse, currency string) string {
	switch col.Field {
	case ColumnCompany:
		if b.Company != nil {
			return b.Company.FullName
		}
	case ColumnCar:
		if b.Car != nil {
			return b.Car.Name
		}
	case ColumnDriver:
		if b.Driver != nil {
			return b.Driver.FullName
		}
	case ColumnFrom:
		return FormatDate(b.From)
	case ColumnTo:
		return FormatDate(b.To)
	case ColumnPrice:
		return FormatPrice(b.Price, currency)
	case ColumnStatus:
		return b.Status
	}
	return ""
}

// Currency is the suffix used for prices
func (c *Controller) Currency() string {
	return c.cfg.Currency
}

// FormatPrice groups thousands and drops a zero fraction: 1234.5 -> "1,234.5 $"
func FormatPrice(price decimal.Decimal, currency string) string {
	s := price.Round(2).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if frac != "" {
		out += "." + frac
	}
	return out + " " + currency
}
