package bookinglist

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desktopWithRows(t *testing.T, n int) (*fixture, []dto.BookingResponse) {
	t.Helper()
	f := newFixture(t, Desktop)
	rows := bookings(n, entity.BookingStatusPending)
	f.svc.pages[0] = rows
	f.svc.total = int64(n)
	f.query(t)
	return f, rows
}

func TestUpdateStatusAppliesToSelection(t *testing.T) {
	f, rows := desktopWithRows(t, 4)
	ctx := context.Background()

	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID, rows[2].ID}))
	require.NoError(t, f.ctrl.OpenUpdateDialog())
	require.NoError(t, f.ctrl.SelectStatus(entity.BookingStatusPaid))
	require.NoError(t, f.ctrl.ConfirmUpdate(ctx))

	require.Len(t, f.svc.updates, 1)
	assert.ElementsMatch(t, []uuid.UUID{rows[0].ID, rows[2].ID}, f.svc.updates[0].IDs)
	assert.Equal(t, "paid", f.svc.updates[0].Status)

	state := f.ctrl.State()
	assert.False(t, state.UpdateDialogOpen)
	assert.Equal(t, ids(rows), ids(state.Rows))
	assert.Equal(t, "paid", state.Rows[0].Status)
	assert.Equal(t, "pending", state.Rows[1].Status)
	assert.Equal(t, "paid", state.Rows[2].Status)
	assert.Equal(t, "pending", state.Rows[3].Status)

	// the fetched page itself was never mutated
	assert.Equal(t, "pending", rows[0].Status)
}

func TestUpdateWithoutStatusSendsNothing(t *testing.T) {
	f, rows := desktopWithRows(t, 2)

	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID}))
	require.NoError(t, f.ctrl.OpenUpdateDialog())

	err := f.ctrl.ConfirmUpdate(context.Background())
	assert.ErrorIs(t, err, ErrNoStatusSelected)
	assert.Empty(t, f.svc.updates)
	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, rows, f.ctrl.State().Rows)
}

func TestUpdateFailureLeavesRowsAndClosesDialog(t *testing.T) {
	cases := []struct {
		name string
		code int
		err  error
	}{
		{"non-200", http.StatusForbidden, nil},
		{"transport", 0, errors.New("timeout")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, rows := desktopWithRows(t, 2)
			f.svc.updateCode, f.svc.mutateErr = tc.code, tc.err

			require.NoError(t, f.ctrl.SetSelection(ids(rows)))
			require.NoError(t, f.ctrl.OpenUpdateDialog())
			require.NoError(t, f.ctrl.SelectStatus(entity.BookingStatusCancelled))

			err := f.ctrl.ConfirmUpdate(context.Background())
			require.Error(t, err)
			if tc.err == nil {
				var reqErr *RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
			}

			state := f.ctrl.State()
			assert.False(t, state.UpdateDialogOpen)
			assert.Equal(t, rows, state.Rows)
			assert.Equal(t, []string{GenericErrorMessage}, f.notifier.messages)
		})
	}
}

func TestUpdateDialogPreconditions(t *testing.T) {
	f, _ := desktopWithRows(t, 1)

	assert.ErrorIs(t, f.ctrl.OpenUpdateDialog(), ErrEmptySelection)
	assert.ErrorIs(t, f.ctrl.ConfirmUpdate(context.Background()), ErrDialogClosed)
	assert.ErrorIs(t, f.ctrl.SelectStatus("archived"), ErrUnknownStatus)

	m := newFixture(t, Mobile)
	assert.ErrorIs(t, m.ctrl.SetSelection([]uuid.UUID{uuid.New()}), ErrDesktopOnly)
	assert.ErrorIs(t, m.ctrl.OpenUpdateDialog(), ErrDesktopOnly)
}

func TestCancelUpdateKeepsSelection(t *testing.T) {
	f, rows := desktopWithRows(t, 2)
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[1].ID, rows[1].ID}))
	require.NoError(t, f.ctrl.OpenUpdateDialog())

	f.ctrl.CancelUpdate()

	state := f.ctrl.State()
	assert.False(t, state.UpdateDialogOpen)
	assert.Equal(t, []uuid.UUID{rows[1].ID}, state.Selection)
}

func TestDesktopBulkDelete(t *testing.T) {
	f, rows := desktopWithRows(t, 5)

	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[1].ID, rows[3].ID}))
	require.NoError(t, f.ctrl.OpenBulkDelete())
	require.NoError(t, f.ctrl.ConfirmDelete(context.Background()))

	require.Len(t, f.svc.deletes, 1)
	assert.Equal(t, []uuid.UUID{rows[1].ID, rows[3].ID}, f.svc.deletes[0])

	state := f.ctrl.State()
	assert.Equal(t, []uuid.UUID{rows[0].ID, rows[2].ID, rows[4].ID}, ids(state.Rows))
	assert.Empty(t, state.Selection)
	assert.False(t, state.DeleteDialogOpen)
	assert.Equal(t, int64(5), state.RowCount)
}

func TestDesktopRowDeleteIgnoresSelection(t *testing.T) {
	f, rows := desktopWithRows(t, 3)

	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID}))
	require.NoError(t, f.ctrl.RequestDelete(rows[2].ID))
	require.NoError(t, f.ctrl.ConfirmDelete(context.Background()))

	assert.Equal(t, [][]uuid.UUID{{rows[2].ID}}, f.svc.deletes)

	state := f.ctrl.State()
	assert.Equal(t, []uuid.UUID{rows[0].ID, rows[1].ID}, ids(state.Rows))
	assert.Equal(t, []uuid.UUID{rows[0].ID}, state.Selection)
}

func TestDesktopDeleteFailureKeepsRows(t *testing.T) {
	f, rows := desktopWithRows(t, 3)
	f.svc.deleteCode = http.StatusInternalServerError

	require.NoError(t, f.ctrl.RequestDelete(rows[0].ID))
	err := f.ctrl.ConfirmDelete(context.Background())

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	state := f.ctrl.State()
	assert.Equal(t, rows, state.Rows)
	assert.False(t, state.DeleteDialogOpen)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCancelDelete(t *testing.T) {
	f, rows := desktopWithRows(t, 2)

	require.NoError(t, f.ctrl.RequestDelete(rows[0].ID))
	f.ctrl.CancelDelete()

	assert.False(t, f.ctrl.State().DeleteDialogOpen)
	assert.ErrorIs(t, f.ctrl.ConfirmDelete(context.Background()), ErrDialogClosed)
	assert.Empty(t, f.svc.deletes)
}

func TestDeleteDialogPreconditions(t *testing.T) {
	f, _ := desktopWithRows(t, 1)
	assert.ErrorIs(t, f.ctrl.OpenBulkDelete(), ErrEmptySelection)
	assert.ErrorIs(t, f.ctrl.RequestMobileDelete(uuid.New(), 0), ErrMobileOnly)

	m := newFixture(t, Mobile)
	assert.ErrorIs(t, m.ctrl.RequestDelete(uuid.New()), ErrDesktopOnly)
	assert.ErrorIs(t, m.ctrl.OpenBulkDelete(), ErrDesktopOnly)
	assert.ErrorIs(t, m.ctrl.RequestMobileDelete(uuid.New(), 0), ErrNoDeleteTarget)
}

func TestMobileDeleteRemovesByIndex(t *testing.T) {
	f := newFixture(t, Mobile)
	rows := bookings(4, entity.BookingStatusPaid)
	f.svc.pages[0] = rows
	f.svc.total = 4
	f.query(t)

	require.NoError(t, f.ctrl.RequestMobileDelete(rows[1].ID, 1))
	require.NoError(t, f.ctrl.ConfirmDelete(context.Background()))

	assert.Equal(t, [][]uuid.UUID{{rows[1].ID}}, f.svc.deletes)

	state := f.ctrl.State()
	assert.Equal(t, []uuid.UUID{rows[0].ID, rows[2].ID, rows[3].ID}, ids(state.Rows))
	assert.Equal(t, int64(4), state.RowCount)
	assert.True(t, state.HasMore)
	assert.False(t, state.DeleteDialogOpen)
}

func TestMobileDeleteFailureKeepsRows(t *testing.T) {
	f := newFixture(t, Mobile)
	rows := bookings(2, entity.BookingStatusPaid)
	f.svc.pages[0] = rows
	f.query(t)
	f.svc.mutateErr = errors.New("offline")

	require.NoError(t, f.ctrl.RequestMobileDelete(rows[0].ID, 0))
	assert.Error(t, f.ctrl.ConfirmDelete(context.Background()))

	state := f.ctrl.State()
	assert.Equal(t, rows, state.Rows)
	assert.False(t, state.DeleteDialogOpen)
}

func TestRefetchPrunesSelection(t *testing.T) {
	f, rows := desktopWithRows(t, 3)
	ctx := context.Background()
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID, rows[1].ID}))

	next := append([]dto.BookingResponse{rows[1]}, bookings(1, entity.BookingStatusPaid)...)
	f.svc.pages[0] = next
	require.NoError(t, f.ctrl.SetFilter(ctx, &dto.BookingFilterRequest{Keyword: "k"}))

	assert.Equal(t, []uuid.UUID{rows[1].ID}, f.ctrl.State().Selection)

	require.NoError(t, f.ctrl.OpenBulkDelete())
	require.NoError(t, f.ctrl.ConfirmDelete(ctx))
	assert.Equal(t, [][]uuid.UUID{{rows[1].ID}}, f.svc.deletes)

	// nothing selected is left on screen: the bulk header goes away
	f.svc.pages[0] = bookings(2, entity.BookingStatusPaid)
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{next[1].ID}))
	require.NoError(t, f.ctrl.SetFilter(ctx, &dto.BookingFilterRequest{Keyword: "other"}))

	assert.Empty(t, f.ctrl.State().Selection)
	cols := f.ctrl.Columns()
	assert.False(t, cols[len(cols)-1].BulkActions)
	assert.ErrorIs(t, f.ctrl.OpenBulkDelete(), ErrEmptySelection)
}

func TestEmptyQueryClearsSelection(t *testing.T) {
	f, rows := desktopWithRows(t, 2)
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID}))

	require.NoError(t, f.ctrl.SetStatuses(context.Background(), nil))

	assert.Empty(t, f.ctrl.State().Selection)
}

func TestBulkDeleteReadsSelectionOnConfirm(t *testing.T) {
	f, rows := desktopWithRows(t, 3)
	ctx := context.Background()
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID, rows[2].ID}))
	require.NoError(t, f.ctrl.OpenBulkDelete())

	f.svc.pages[0] = rows[1:]
	require.NoError(t, f.ctrl.Refresh(ctx))

	require.NoError(t, f.ctrl.ConfirmDelete(ctx))
	assert.Equal(t, [][]uuid.UUID{{rows[2].ID}}, f.svc.deletes)
	assert.Equal(t, []uuid.UUID{rows[1].ID}, ids(f.ctrl.State().Rows))
}

func TestUpdateAfterSelectionLeftGrid(t *testing.T) {
	f, rows := desktopWithRows(t, 2)
	ctx := context.Background()
	require.NoError(t, f.ctrl.SetSelection([]uuid.UUID{rows[0].ID}))
	require.NoError(t, f.ctrl.OpenUpdateDialog())
	require.NoError(t, f.ctrl.SelectStatus(entity.BookingStatusPaid))

	f.svc.pages[0] = bookings(2, entity.BookingStatusPending)
	require.NoError(t, f.ctrl.Refresh(ctx))

	assert.ErrorIs(t, f.ctrl.ConfirmUpdate(ctx), ErrEmptySelection)
	assert.Empty(t, f.svc.updates)
	assert.False(t, f.ctrl.State().UpdateDialogOpen)
}

func TestMobileDeleteRejectsMismatchedCard(t *testing.T) {
	f := newFixture(t, Mobile)
	rows := bookings(3, entity.BookingStatusPaid)
	f.svc.pages[0] = rows
	f.query(t)

	assert.ErrorIs(t, f.ctrl.RequestMobileDelete(rows[0].ID, 1), ErrNoDeleteTarget)
	assert.False(t, f.ctrl.State().DeleteDialogOpen)
}

func TestMobileDeleteAfterRefetch(t *testing.T) {
	ctx := context.Background()

	t.Run("booking moved", func(t *testing.T) {
		f := newFixture(t, Mobile)
		old := bookings(3, entity.BookingStatusPaid)
		f.svc.pages[0] = old
		f.query(t)
		require.NoError(t, f.ctrl.RequestMobileDelete(old[1].ID, 1))

		fresh := append([]dto.BookingResponse{old[1]}, bookings(2, entity.BookingStatusPaid)...)
		f.svc.pages[0] = fresh
		require.NoError(t, f.ctrl.SetFilter(ctx, &dto.BookingFilterRequest{Keyword: "k"}))

		require.NoError(t, f.ctrl.ConfirmDelete(ctx))
		assert.Equal(t, [][]uuid.UUID{{old[1].ID}}, f.svc.deletes)
		assert.Equal(t, []uuid.UUID{fresh[1].ID, fresh[2].ID}, ids(f.ctrl.State().Rows))
	})

	t.Run("booking gone", func(t *testing.T) {
		f := newFixture(t, Mobile)
		old := bookings(3, entity.BookingStatusPaid)
		f.svc.pages[0] = old
		f.query(t)
		require.NoError(t, f.ctrl.RequestMobileDelete(old[1].ID, 1))

		fresh := bookings(3, entity.BookingStatusPaid)
		f.svc.pages[0] = fresh
		require.NoError(t, f.ctrl.SetFilter(ctx, &dto.BookingFilterRequest{Keyword: "k"}))

		require.NoError(t, f.ctrl.ConfirmDelete(ctx))
		assert.Equal(t, [][]uuid.UUID{{old[1].ID}}, f.svc.deletes)
		assert.Equal(t, ids(fresh), ids(f.ctrl.State().Rows))
	})
}
