// Package bookinglist keeps a paginated list of bookings in sync with the booking API.
//
// A Controller runs on desktop with server-side pagination, or on mobile where pages are
// accumulated as the user scrolls. It also drives the bulk status update and delete dialogs.
package bookinglist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DeviceClass int

const (
	Desktop DeviceClass = iota
	Mobile
)

func (d DeviceClass) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "desktop"
}

func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desktop":
		return Desktop, nil
	case "mobile":
		return Mobile, nil
	default:
		return Desktop, fmt.Errorf("unknown device class %q", s)
	}
}

const (
	DefaultPageSize             = 30
	DefaultMobilePageSize       = 10
	DefaultInfiniteScrollOffset = 40
)

var (
	ErrNoStatusSelected = errors.New("no status selected")
	ErrUnknownStatus    = errors.New("unknown booking status")
	ErrEmptySelection   = errors.New("no booking selected")
	ErrDesktopOnly      = errors.New("only available on desktop")
	ErrMobileOnly       = errors.New("only available on mobile")
	ErrNoDeleteTarget   = errors.New("no booking to delete")
	ErrDialogClosed     = errors.New("dialog is not open")
)

// RequestError is a mutation the API answered with a non-200 status
type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("booking request failed with status %d", e.StatusCode)
}

type Config struct {
	DeviceClass          DeviceClass
	PageSize             int
	MobilePageSize       int
	InfiniteScrollOffset int
	CDNUsers             string
	Currency             string
	Columns              ColumnOptions

	// OnLoad receives every fetched page and the total record count, one call at a time
	// and never older than the previous call. It must not trigger a fetch itself.
	OnLoad func(rows []dto.BookingResponse, rowCount int64)

	Notifier Notifier
	Log      *logrus.Logger
}

// ScrollMetrics are the scroll container measurements reported by the view
type ScrollMetrics struct {
	ScrollTop    float64
	OffsetHeight float64
	ScrollHeight float64
}

// State is a snapshot of the controller; slices are never shared with the controller
type State struct {
	Rows     []dto.BookingResponse
	RowCount int64
	Page     int
	PageSize int
	Loading  bool
	HasMore  bool

	Selection        []uuid.UUID
	UpdateDialogOpen bool
	SelectedStatus   entity.BookingStatus
	DeleteDialogOpen bool
}

type Controller struct {
	service  BookingService
	cfg      Config
	log      *logrus.Logger
	notifier Notifier

	mu sync.Mutex

	companies  []uuid.UUID
	statuses   []string
	filter     *dto.BookingFilterRequest
	car        *uuid.UUID
	user       *uuid.UUID
	loggedUser *dto.UserResponse

	page     int
	pageSize int
	rows     []dto.BookingResponse
	rowCount int64
	hasMore  bool
	inflight int
	seq      uint64

	selection  []uuid.UUID
	updateOpen bool
	status     entity.BookingStatus

	deleteOpen   bool
	deleteIDs    []uuid.UUID
	deleteBulk   bool
	mobileDelete *mobileTarget

	// emitMu serializes OnLoad; emitted is the newest sequence delivered
	emitMu  sync.Mutex
	emitted uint64
}

type mobileTarget struct {
	id    uuid.UUID
	index int
}

type fetchRequest struct {
	seq   uint64
	empty bool
	req   dto.GetBookingsRequest
	page int
	size int
}

func New(service BookingService, cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MobilePageSize <= 0 {
		cfg.MobilePageSize = DefaultMobilePageSize
	}
	if cfg.InfiniteScrollOffset <= 0 {
		cfg.InfiniteScrollOffset = DefaultInfiniteScrollOffset
	}
	if cfg.Currency == "" {
		cfg.Currency = "$"
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = logNotifier{log: cfg.Log}
	}

	return &Controller{
		service:  service,
		cfg:      cfg,
		log:      cfg.Log,
		notifier: cfg.Notifier,
		pageSize: cfg.PageSize,
		rows:     []dto.BookingResponse{},
	}
}

func (c *Controller) DeviceClass() DeviceClass {
	return c.cfg.DeviceClass
}

func (c *Controller) SetCompanies(ctx context.Context, companies []uuid.UUID) error {
	c.mu.Lock()
	c.companies = append([]uuid.UUID(nil), companies...)
	return c.resetAndFetch(ctx)
}

func (c *Controller) SetStatuses(ctx context.Context, statuses []entity.BookingStatus) error {
	c.mu.Lock()
	c.statuses = make([]string, len(statuses))
	for i, s := range statuses {
		c.statuses[i] = string(s)
	}
	return c.resetAndFetch(ctx)
}

func (c *Controller) SetFilter(ctx context.Context, filter *dto.BookingFilterRequest) error {
	c.mu.Lock()
	if filter != nil {
		f := *filter
		filter = &f
	}
	c.filter = filter
	return c.resetAndFetch(ctx)
}

// SetCar narrows the list to one car; it applies from the next fetch
func (c *Controller) SetCar(car *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.car = copyID(car)
}

// SetUser narrows the list to one driver; it applies from the next fetch
func (c *Controller) SetUser(user *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = copyID(user)
}

func (c *Controller) SetLoggedUser(user *dto.UserResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if user != nil {
		u := *user
		user = &u
	}
	c.loggedUser = user
}

// Refresh fetches the current page again
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	fr := c.prepareFetchLocked()
	c.mu.Unlock()
	return c.execute(ctx, fr)
}

// SetPaginationModel applies the desktop grid's page and page size. A new page size
// always restarts from page 0.
func (c *Controller) SetPaginationModel(ctx context.Context, page, size int) error {
	if c.cfg.DeviceClass != Desktop {
		return ErrDesktopOnly
	}
	if page < 0 || size < 1 {
		return fmt.Errorf("invalid pagination model page=%d size=%d", page, size)
	}

	c.mu.Lock()
	if size != c.pageSize {
		c.pageSize = size
		return c.resetAndFetch(ctx)
	}
	if page == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = page
	fr := c.prepareFetchLocked()
	c.mu.Unlock()
	return c.execute(ctx, fr)
}

// OnScroll loads the next mobile page once the view is scrolled close enough to its end.
// It reports whether a fetch was started.
func (c *Controller) OnScroll(ctx context.Context, m ScrollMetrics) (bool, error) {
	if c.cfg.DeviceClass != Mobile {
		return false, ErrMobileOnly
	}

	c.mu.Lock()
	nearEnd := m.ScrollTop > 0 &&
		m.OffsetHeight+m.ScrollTop+float64(c.cfg.InfiniteScrollOffset) >= m.ScrollHeight
	if !c.hasMore || c.inflight > 0 || !nearEnd {
		c.mu.Unlock()
		return false, nil
	}
	c.page++
	fr := c.prepareFetchLocked()
	c.mu.Unlock()

	return true, c.execute(ctx, fr)
}

// State returns a snapshot safe to read without holding the controller
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Rows:             append([]dto.BookingResponse(nil), c.rows...),
		RowCount:         c.rowCount,
		Page:             c.page,
		PageSize:         c.effectivePageSize(),
		Loading:          c.inflight > 0,
		HasMore:          c.hasMore,
		Selection:        append([]uuid.UUID(nil), c.selection...),
		UpdateDialogOpen: c.updateOpen,
		SelectedStatus:   c.status,
		DeleteDialogOpen: c.deleteOpen,
	}
}

// resetAndFetch is called with c.mu held and releases it
func (c *Controller) resetAndFetch(ctx context.Context) error {
	c.page = 0
	fr := c.prepareFetchLocked()
	c.mu.Unlock()
	return c.execute(ctx, fr)
}

// prepareFetchLocked snapshots the query and claims a sequence number. When no company or
// no status is selected it clears the rows and returns an empty request.
func (c *Controller) prepareFetchLocked() *fetchRequest {
	c.seq++

	if len(c.companies) == 0 || len(c.statuses) == 0 {
		c.rows = []dto.BookingResponse{}
		c.rowCount = 0
		c.hasMore = false
		c.selection = nil
		return &fetchRequest{seq: c.seq, empty: true}
	}

	c.inflight++
	return &fetchRequest{
		seq: c.seq,
		req: dto.GetBookingsRequest{
			Companies: append([]uuid.UUID(nil), c.companies...),
			Statuses:  append([]string(nil), c.statuses...),
			Filter:    c.filter,
			Car:       copyID(c.car),
			User:      copyID(c.user),
		},
		page: c.page,
		size: c.effectivePageSize(),
	}
}

func (c *Controller) execute(ctx context.Context, fr *fetchRequest) error {
	if fr.empty {
		c.emitLoad(fr.seq, []dto.BookingResponse{}, 0)
		return nil
	}

	result, err := c.service.GetBookings(ctx, fr.req, fr.page, fr.size)

	c.mu.Lock()
	c.inflight--
	if fr.seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.log.Debugf("Discarding booking page %d from request %d, latest is %d", fr.page, fr.seq, latest)
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warnf("Failed to get bookings: %+v", err)
		c.notifier.Error(GenericErrorMessage)
		return err
	}

	page := result.ResultData
	if page == nil {
		page = []dto.BookingResponse{}
	}

	if c.cfg.DeviceClass == Mobile && fr.page > 0 {
		rows := make([]dto.BookingResponse, 0, len(c.rows)+len(page))
		rows = append(rows, c.rows...)
		c.rows = append(rows, page...)
	} else {
		c.rows = append([]dto.BookingResponse{}, page...)
		c.selection = retainListed(c.selection, c.rows)
	}
	if c.cfg.DeviceClass == Mobile {
		c.hasMore = len(page) > 0
	}
	c.rowCount = result.PageInfo.TotalRecords
	total := c.rowCount
	c.mu.Unlock()

	c.emitLoad(fr.seq, page, total)
	return nil
}

// emitLoad delivers accepted pages in fetch order and skips any page older than the
// last one delivered
func (c *Controller) emitLoad(seq uint64, rows []dto.BookingResponse, total int64) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if seq <= c.emitted {
		c.log.Debugf("Skipping load notification for request %d, %d already delivered", seq, c.emitted)
		return
	}
	c.emitted = seq
	if c.cfg.OnLoad != nil {
		c.cfg.OnLoad(append([]dto.BookingResponse(nil), rows...), total)
	}
}

func (c *Controller) effectivePageSize() int {
	if c.cfg.DeviceClass == Mobile {
		return c.cfg.MobilePageSize
	}
	return c.pageSize
}

func (c *Controller) isAdminLocked() bool {
	return c.loggedUser != nil && c.loggedUser.Role == entity.RoleAdmin
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func succeeded(code int) bool {
	return code == http.StatusOK
}
