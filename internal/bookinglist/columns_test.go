package bookinglist

import (
	"testing"
	"time"

	"car-rental-admin/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(columns []Column) []ColumnField {
	out := make([]ColumnField, len(columns))
	for i, c := range columns {
		out[i] = c.Field
	}
	return out
}

func TestDeriveColumns(t *testing.T) {
	cases := []struct {
		name  string
		opts  ColumnOptions
		admin bool
		want  []ColumnField
	}{
		{
			name:  "admin sees everything",
			admin: true,
			want:  []ColumnField{ColumnCompany, ColumnCar, ColumnDriver, ColumnFrom, ColumnTo, ColumnPrice, ColumnStatus, ColumnAction},
		},
		{
			name: "supplier never sees company",
			want: []ColumnField{ColumnCar, ColumnDriver, ColumnFrom, ColumnTo, ColumnPrice, ColumnStatus, ColumnAction},
		},
		{
			name:  "admin hides company",
			opts:  ColumnOptions{HideCompanyColumn: true},
			admin: true,
			want:  []ColumnField{ColumnCar, ColumnDriver, ColumnFrom, ColumnTo, ColumnPrice, ColumnStatus, ColumnAction},
		},
		{
			name:  "hide dates and car",
			opts:  ColumnOptions{HideDates: true, HideCarColumn: true},
			admin: true,
			want:  []ColumnField{ColumnCompany, ColumnDriver, ColumnPrice, ColumnStatus, ColumnAction},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fields(DeriveColumns(tc.opts, tc.admin, false)))
		})
	}
}

func TestActionColumnFollowsSelection(t *testing.T) {
	cols := DeriveColumns(ColumnOptions{}, false, false)
	assert.False(t, cols[len(cols)-1].BulkActions)

	cols = DeriveColumns(ColumnOptions{}, false, true)
	assert.True(t, cols[len(cols)-1].BulkActions)
}

func TestControllerColumns(t *testing.T) {
	f, rows := desktopWithRows(t, 2)
	assert.NotContains(t, fields(f.ctrl.Columns()), ColumnCompany)

	f.ctrl.SetLoggedUser(&dto.UserResponse{Role: "admin"})
	assert.Equal(t, ColumnCompany, f.ctrl.Columns()[0].Field)

	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID}))
	cols := f.ctrl.Columns()
	assert.True(t, cols[len(cols)-1].BulkActions)
}

func TestColumnValue(t *testing.T) {
	b := &dto.BookingResponse{
		Company: &dto.UserSummary{FullName: "Rent Co"},
		Car:     &dto.CarSummary{Name: "Clio"},
		Driver:  &dto.UserSummary{FullName: "Ada"},
		From:    time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC),
		To:      time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		Price:   decimal.RequireFromString("1234.5"),
		Status:  "paid",
	}

	want := map[ColumnField]string{
		ColumnCompany: "Rent Co",
		ColumnCar:     "Clio",
		ColumnDriver:  "Ada",
		ColumnFrom:    "07-03-2024",
		ColumnTo:      "10-03-2024",
		ColumnPrice:   "1,234.5 $",
		ColumnStatus:  "paid",
		ColumnAction:  "",
	}
	for _, col := range DeriveColumns(ColumnOptions{}, true, false) {
		assert.Equal(t, want[col.Field], col.Value(b, "$"), col.Field)
	}

	assert.Equal(t, "", Column{Field: ColumnCar}.Value(&dto.BookingResponse{}, "$"))
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"0":          "0 €",
		"999":        "999 €",
		"1000":       "1,000 €",
		"1234567.89": "1,234,567.89 €",
		"12.345":     "12.35 €",
		"-4500":      "-4,500 €",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in), "€"), in)
	}
}
