package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"car-rental-admin/internal/bookinglist"
	"car-rental-admin/internal/client"
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var _ bookinglist.BookingService = (*client.Client)(nil)

// Simulated mobile viewport used to drive infinite scrolling
const (
	cardHeight     = 120
	viewportHeight = 720
	maxMobilePages = 1000
)

type app struct {
	opts *options
	log  *logrus.Logger
	out  io.Writer
	api  *client.Client
	me   *dto.UserResponse
	ctrl *bookinglist.Controller
}

func newApp(ctx context.Context, opts *options, log *logrus.Logger, out io.Writer) (*app, error) {
	api := client.New(opts.API)
	if _, err := api.Login(ctx, opts.Email, opts.Password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	me, err := api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	log.Debugf("Signed in as %s (%s)", me.Email, me.Role)

	a := &app{opts: opts, log: log, out: out, api: api, me: me}
	a.ctrl = bookinglist.New(api, bookinglist.Config{
		DeviceClass:          opts.Device,
		PageSize:             opts.PageSize,
		MobilePageSize:       opts.MobilePageSize,
		InfiniteScrollOffset: opts.ScrollOffset,
		CDNUsers:             opts.CDNUsers,
		Currency:             opts.Currency,
		Columns:              opts.Columns,
		Log:                  log,
		OnLoad: func(rows []dto.BookingResponse, rowCount int64) {
			log.Debugf("Loaded %d bookings of %d", len(rows), rowCount)
		},
	})
	a.ctrl.SetLoggedUser(me)
	a.ctrl.SetCar(opts.Car)
	a.ctrl.SetUser(opts.User)

	return a, nil
}

// load runs the query; companies and statuses go last since each of them triggers a fetch
func (a *app) load(ctx context.Context) error {
	companies := a.opts.Companies
	if len(companies) == 0 {
		suppliers, err := a.api.Suppliers(ctx)
		if err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		for _, s := range suppliers {
			companies = append(companies, s.ID)
		}
	}

	if a.opts.Keyword != "" {
		if err := a.ctrl.SetFilter(ctx, &dto.BookingFilterRequest{Keyword: a.opts.Keyword}); err != nil {
			return err
		}
	}
	if err := a.ctrl.SetStatuses(ctx, a.opts.Statuses); err != nil {
		return err
	}
	return a.ctrl.SetCompanies(ctx, companies)
}

func (a *app) list(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}

	if a.ctrl.DeviceClass() == bookinglist.Mobile {
		if err := a.scrollToEnd(ctx); err != nil {
			return err
		}
		a.printCards()
		return nil
	}

	if a.opts.Page > 0 {
		if err := a.ctrl.SetPaginationModel(ctx, a.opts.Page, a.opts.PageSize); err != nil {
			return err
		}
	}
	return a.printTable()
}

// scrollToEnd keeps scrolling to the bottom until the API has no more pages
func (a *app) scrollToEnd(ctx context.Context) error {
	for i := 0; i < maxMobilePages; i++ {
		rows := len(a.ctrl.State().Rows)
		height := float64(rows * cardHeight)
		top := height - viewportHeight
		if top < 1 {
			top = 1
		}

		started, err := a.ctrl.OnScroll(ctx, bookinglist.ScrollMetrics{
			ScrollTop:    top,
			OffsetHeight: viewportHeight,
			ScrollHeight: height,
		})
		if err != nil {
			return err
		}
		if !started {
			return nil
		}
	}
	a.log.Warnf("Stopped scrolling after %d pages", maxMobilePages)
	return nil
}

func (a *app) printTable() error {
	state := a.ctrl.State()
	columns := a.ctrl.Columns()

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	headers := []string{"ID"}
	for _, col := range columns {
		if col.Field != bookinglist.ColumnAction {
			headers = append(headers, strings.ToUpper(col.Header))
		}
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for i := range state.Rows {
		cells := []string{state.Rows[i].ID.String()}
		for _, col := range columns {
			if col.Field != bookinglist.ColumnAction {
				cells = append(cells, col.Value(&state.Rows[i], a.ctrl.Currency()))
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pages := int64(0)
	if state.PageSize > 0 {
		pages = (state.RowCount + int64(state.PageSize) - 1) / int64(state.PageSize)
	}
	fmt.Fprintf(a.out, "\npage %d of %d, %d bookings\n", state.Page+1, pages, state.RowCount)
	return nil
}

func (a *app) printCards() {
	cards := a.ctrl.Cards()
	for _, card := range cards {
		fmt.Fprintf(a.out, "#%d  %s  [%s]\n", card.Index, card.ID, card.Status)
		fmt.Fprintf(a.out, "  Car:       %s\n", card.CarName)
		fmt.Fprintf(a.out, "  Driver:    %s\n", card.DriverName)
		fmt.Fprintf(a.out, "  Days:      %d (%s - %s)\n", card.Days,
			card.From.Format("Mon, 2 Jan, 15:04"), card.To.Format("Mon, 2 Jan, 15:04"))
		fmt.Fprintf(a.out, "  Pickup:    %s\n", card.PickupLocation)
		fmt.Fprintf(a.out, "  Drop-off:  %s\n", card.DropOffLocation)
		fmt.Fprintf(a.out, "  Supplier:  %s %s\n", card.SupplierName, card.SupplierAvatar)
		if len(card.Options) > 0 {
			fmt.Fprintf(a.out, "  Options:   %s\n", strings.Join(card.Options, ", "))
		}
		fmt.Fprintf(a.out, "  Price:     %s\n\n", card.Price)
	}
	fmt.Fprintf(a.out, "%d of %d bookings\n", len(cards), a.ctrl.State().RowCount)
}

func (a *app) updateStatus(ctx context.Context, rawIDs []string, to string) error {
	if a.ctrl.DeviceClass() != bookinglist.Desktop {
		return bookinglist.ErrDesktopOnly
	}
	ids, err := parseIDs(rawIDs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return bookinglist.ErrEmptySelection
	}

	if err := a.ctrl.SetSelection(ids); err != nil {
		return err
	}
	if err := a.ctrl.OpenUpdateDialog(); err != nil {
		return err
	}
	if to != "" {
		if err := a.ctrl.SelectStatus(entity.BookingStatus(to)); err != nil {
			return err
		}
	}
	if err := a.ctrl.ConfirmUpdate(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d booking(s) set to %s\n", len(ids), to)
	return nil
}

func (a *app) delete(ctx context.Context, rawIDs []string) error {
	ids, err := parseIDs(rawIDs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return bookinglist.ErrNoDeleteTarget
	}

	if a.ctrl.DeviceClass() == bookinglist.Mobile {
		return a.deleteMobile(ctx, ids)
	}

	if len(ids) == 1 {
		err = a.ctrl.RequestDelete(ids[0])
	} else if err = a.ctrl.SetSelection(ids); err == nil {
		err = a.ctrl.OpenBulkDelete()
	}
	if err != nil {
		return err
	}
	if err := a.ctrl.ConfirmDelete(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d booking(s) deleted\n", len(ids))
	return nil
}

// deleteMobile deletes card by card, so the bookings must be among the loaded cards
func (a *app) deleteMobile(ctx context.Context, ids []uuid.UUID) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if err := a.scrollToEnd(ctx); err != nil {
		return err
	}

	for _, id := range ids {
		index := -1
		for _, card := range a.ctrl.Cards() {
			if card.ID == id {
				index = card.Index
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("booking %s: %w", id, bookinglist.ErrNoDeleteTarget)
		}

		if err := a.ctrl.RequestMobileDelete(id, index); err != nil {
			return err
		}
		if err := a.ctrl.ConfirmDelete(ctx); err != nil {
			return fmt.Errorf("booking %s: %w", id, err)
		}
		fmt.Fprintf(a.out, "booking %s deleted\n", id)
	}
	return nil
}
