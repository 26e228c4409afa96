package state

import (
	"github.com/google/uuid"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

// Action describes one state transition. Reducers switch on the concrete type.
type Action interface {
	Name() string
}

type SignedIn struct {
	Principal identity.Principal
}

type SignedOut struct{}

type CatalogRequested struct {
	Location string
}

type CatalogLoaded struct {
	Ticket uint64
	Items  []menu.Item
}

type CatalogFailed struct {
	Ticket  uint64
	Message string
}

type ItemAdded struct {
	LineID string
	Item   menu.Item
}

type LineAdjusted struct {
	LineID string
	Delta  int
}

type CartCleared struct{}

type SubmissionRejected struct {
	Message string
}

type SubmissionStarted struct {
	Correlation string
}

type SubmissionSucceeded struct {
	Result  order.Result
	Message string
}

type SubmissionFailed struct {
	Message string
}

// SubmissionSettled returns the flow to idle after a terminal phase.
type SubmissionSettled struct{}

type NoticeDismissed struct{}

type OrdersRequested struct{}

type OrdersLoaded struct {
	Records []order.Record
}

type OrdersFailed struct {
	Message string
}

type OrderUpdated struct {
	Record order.Record
}

type ReservationsRequested struct{}

type ReservationsLoaded struct {
	Items []reservation.Reservation
}

type ReservationsFailed struct {
	Message string
}

// ReservationSaved inserts or replaces a reservation by id.
type ReservationSaved struct {
	Reservation reservation.Reservation
	Message     string
}

type ReservationRejected struct {
	Message string
}

type LoyaltyRequested struct{}

// LoyaltyLoaded carries the membership; a nil Program means not enrolled.
type LoyaltyLoaded struct {
	Program *loyalty.Program
	Message string
}

type LoyaltyFailed struct {
	Message string
}

func (SignedIn) Name() string            { return "auth/signed-in" }
func (SignedOut) Name() string           { return "auth/signed-out" }
func (CatalogRequested) Name() string    { return "catalog/requested" }
func (CatalogLoaded) Name() string       { return "catalog/loaded" }
func (CatalogFailed) Name() string       { return "catalog/failed" }
func (ItemAdded) Name() string           { return "cart/item-added" }
func (LineAdjusted) Name() string        { return "cart/line-adjusted" }
func (CartCleared) Name() string         { return "cart/cleared" }
func (SubmissionRejected) Name() string  { return "checkout/rejected" }
func (SubmissionStarted) Name() string   { return "checkout/started" }
func (SubmissionSucceeded) Name() string { return "checkout/succeeded" }
func (SubmissionFailed) Name() string    { return "checkout/failed" }
func (SubmissionSettled) Name() string   { return "checkout/settled" }
func (NoticeDismissed) Name() string     { return "checkout/notice-dismissed" }
func (OrdersRequested) Name() string     { return "orders/requested" }
func (OrdersLoaded) Name() string        { return "orders/loaded" }
func (OrdersFailed) Name() string        { return "orders/failed" }
func (OrderUpdated) Name() string        { return "orders/updated" }

func (ReservationsRequested) Name() string { return "reservations/requested" }
func (ReservationsLoaded) Name() string    { return "reservations/loaded" }
func (ReservationsFailed) Name() string    { return "reservations/failed" }
func (ReservationSaved) Name() string      { return "reservations/saved" }
func (ReservationRejected) Name() string   { return "reservations/rejected" }
func (LoyaltyRequested) Name() string      { return "loyalty/requested" }
func (LoyaltyLoaded) Name() string         { return "loyalty/loaded" }
func (LoyaltyFailed) Name() string         { return "loyalty/failed" }

// AddItem builds an ItemAdded action with a fresh line id.
func AddItem(item menu.Item) ItemAdded {
	return ItemAdded{LineID: uuid.NewString(), Item: item}
}
