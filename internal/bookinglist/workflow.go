package bookinglist

import (
	"context"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// SetSelection replaces the desktop checkbox selection
func (c *Controller) SetSelection(ids []uuid.UUID) error {
	if c.cfg.DeviceClass != Desktop {
		return ErrDesktopOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = dedupe(ids)
	return nil
}

func (c *Controller) OpenUpdateDialog() error {
	if c.cfg.DeviceClass != Desktop {
		return ErrDesktopOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selection) == 0 {
		return ErrEmptySelection
	}
	c.updateOpen = true
	return nil
}

func (c *Controller) SelectStatus(status entity.BookingStatus) error {
	if !status.IsValid() {
		return ErrUnknownStatus
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	return nil
}

func (c *Controller) CancelUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateOpen = false
}

// ConfirmUpdate sets the chosen status on every selected booking. Without a chosen status
// nothing is sent and the dialog stays open; otherwise the dialog closes whatever the outcome.
func (c *Controller) ConfirmUpdate(ctx context.Context) error {
	c.mu.Lock()
	if !c.updateOpen {
		c.mu.Unlock()
		return ErrDialogClosed
	}
	if c.status == "" {
		c.mu.Unlock()
		c.notifier.Error(GenericErrorMessage)
		return ErrNoStatusSelected
	}
	if len(c.selection) == 0 {
		c.updateOpen = false
		c.mu.Unlock()
		return ErrEmptySelection
	}
	ids := append([]uuid.UUID(nil), c.selection...)
	status := c.status
	c.mu.Unlock()

	code, err := c.service.UpdateStatus(ctx, dto.UpdateStatusRequest{IDs: ids, Status: string(status)})

	c.mu.Lock()
	c.updateOpen = false
	if err == nil && succeeded(code) {
		c.rows = withStatus(c.rows, idSet(ids), status)
	}
	c.mu.Unlock()

	return c.requestOutcome("update booking status", code, err)
}

// RequestDelete opens the delete dialog for a single desktop row
func (c *Controller) RequestDelete(id uuid.UUID) error {
	if c.cfg.DeviceClass != Desktop {
		return ErrDesktopOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteIDs = []uuid.UUID{id}
	c.deleteBulk = false
	c.deleteOpen = true
	return nil
}

// OpenBulkDelete opens the delete dialog for the selection. The selection is read again
// on confirm, so rows that left the grid in between are not deleted.
func (c *Controller) OpenBulkDelete() error {
	if c.cfg.DeviceClass != Desktop {
		return ErrDesktopOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selection) == 0 {
		return ErrEmptySelection
	}
	c.deleteIDs = nil
	c.deleteBulk = true
	c.deleteOpen = true
	return nil
}

// RequestMobileDelete opens the delete dialog for the card at index, which must hold id
func (c *Controller) RequestMobileDelete(id uuid.UUID, index int) error {
	if c.cfg.DeviceClass != Mobile {
		return ErrMobileOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.rows) || c.rows[index].ID != id {
		return ErrNoDeleteTarget
	}
	c.mobileDelete = &mobileTarget{id: id, index: index}
	c.deleteOpen = true
	return nil
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDeleteLocked()
}

// ConfirmDelete deletes the pending target. Rows change only on success; the row count
// and the more-available flag are left as they are.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if !c.deleteOpen {
		c.mu.Unlock()
		return ErrDialogClosed
	}

	var ids []uuid.UUID
	var target *mobileTarget
	if c.cfg.DeviceClass == Mobile {
		if c.mobileDelete == nil {
			c.mu.Unlock()
			return ErrNoDeleteTarget
		}
		t := *c.mobileDelete
		target = &t
		ids = []uuid.UUID{t.id}
	} else if c.deleteBulk {
		ids = append([]uuid.UUID(nil), c.selection...)
	} else {
		ids = append([]uuid.UUID(nil), c.deleteIDs...)
	}
	if len(ids) == 0 {
		c.closeDeleteLocked()
		c.mu.Unlock()
		return ErrNoDeleteTarget
	}
	c.mu.Unlock()

	code, err := c.service.DeleteBookings(ctx, ids)

	c.mu.Lock()
	c.closeDeleteLocked()
	if err == nil && succeeded(code) {
		if target != nil {
			c.rows = withoutTarget(c.rows, *target)
		} else {
			removed := idSet(ids)
			c.rows = withoutIDs(c.rows, removed)
			c.selection = withoutSelected(c.selection, removed)
		}
	}
	c.mu.Unlock()

	return c.requestOutcome("delete bookings", code, err)
}

func (c *Controller) closeDeleteLocked() {
	c.deleteOpen = false
	c.deleteIDs = nil
	c.deleteBulk = false
	c.mobileDelete = nil
}

func (c *Controller) requestOutcome(action string, code int, err error) error {
	if err != nil {
		c.log.Warnf("Failed to %s: %+v", action, err)
		c.notifier.Error(GenericErrorMessage)
		return err
	}
	if !succeeded(code) {
		c.log.Warnf("Failed to %s: status %d", action, code)
		c.notifier.Error(GenericErrorMessage)
		return &RequestError{StatusCode: code}
	}
	return nil
}

// withStatus returns a copy of rows with status applied to the rows in ids
func withStatus(rows []dto.BookingResponse, ids map[uuid.UUID]struct{}, status entity.BookingStatus) []dto.BookingResponse {
	out := make([]dto.BookingResponse, len(rows))
	for i, row := range rows {
		if _, ok := ids[row.ID]; ok {
			row.Status = string(status)
		}
		out[i] = row
	}
	return out
}

func withoutIDs(rows []dto.BookingResponse, ids map[uuid.UUID]struct{}) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(rows))
	for _, row := range rows {
		if _, ok := ids[row.ID]; !ok {
			out = append(out, row)
		}
	}
	return out
}

func withoutIndex(rows []dto.BookingResponse, index int) []dto.BookingResponse {
	if index < 0 || index >= len(rows) {
		return rows
	}
	out := make([]dto.BookingResponse, 0, len(rows)-1)
	out = append(out, rows[:index]...)
	return append(out, rows[index+1:]...)
}

func withoutSelected(selection []uuid.UUID, removed map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(selection))
	for _, id := range selection {
		if _, ok := removed[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// withoutTarget drops the card at the target index while it still holds the target
// booking; after a refetch moved it, the booking is dropped wherever it is now
func withoutTarget(rows []dto.BookingResponse, t mobileTarget) []dto.BookingResponse {
	if t.index >= 0 && t.index < len(rows) && rows[t.index].ID == t.id {
		return withoutIndex(rows, t.index)
	}
	return withoutIDs(rows, map[uuid.UUID]struct{}{t.id: {}})
}

// retainListed keeps the selected ids that are still among rows
func retainListed(selection []uuid.UUID, rows []dto.BookingResponse) []uuid.UUID {
	if len(selection) == 0 {
		return selection
	}
	listed := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		listed[row.ID] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(selection))
	for _, id := range selection {
		if _, ok := listed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
