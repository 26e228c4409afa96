package state

import (
	"slices"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

// AppState is the whole state of one storefront session.
type AppState struct {
	Auth     AuthState
	Catalog  CatalogState
	Cart     cart.Cart
	Checkout CheckoutState
	Orders   OrdersState
	Bookings ReservationsState
	Loyalty  LoyaltyState
}

type AuthState struct {
	Principal identity.Principal
}

// CatalogState tracks the latest requested location. Ticket increases with
// every request; only a response carrying the current ticket is applied.
type CatalogState struct {
	Location string
	Ticket   uint64
	Loading  bool
	Items    []menu.Item
	Error    string
}

// Phase of the checkout flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Severity of a notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is a message waiting to be shown to the user.
type Notice struct {
	Severity Severity
	Message  string
}

func (n Notice) IsZero() bool {
	return n.Message == ""
}

type CheckoutState struct {
	Phase       Phase
	Correlation string
	LastOrderID string
	Notice      Notice
}

type OrdersState struct {
	Loading bool
	Records []order.Record
	Error   string
}

type ReservationsState struct {
	Loading bool
	Items   []reservation.Reservation
	Error   string
	Notice  Notice
}

// LoyaltyState holds the membership, if any. Loaded distinguishes "not
// enrolled" from "not fetched yet".
type LoyaltyState struct {
	Loading bool
	Loaded  bool
	Program *loyalty.Program
	Error   string
	Notice  Notice
}

// Initial returns the state of a fresh session.
func Initial(p identity.Principal) AppState {
	return AppState{
		Auth:     AuthState{Principal: p},
		Catalog:  CatalogState{Location: menu.DefaultLocation},
		Checkout: CheckoutState{Phase: PhaseIdle},
	}
}

// Clone returns a copy sharing no mutable memory with s.
func (s AppState) Clone() AppState {
	out := s
	out.Auth.Principal = s.Auth.Principal.Clone()
	out.Catalog.Items = slices.Clone(s.Catalog.Items)
	out.Cart = cart.New(s.Cart.Lines()...)
	out.Orders.Records = cloneRecords(s.Orders.Records)
	out.Bookings.Items = slices.Clone(s.Bookings.Items)
	out.Loyalty.Program = cloneProgram(s.Loyalty.Program)
	return out
}

func cloneProgram(p *loyalty.Program) *loyalty.Program {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

func cloneRecords(records []order.Record) []order.Record {
	if records == nil {
		return nil
	}
	out := make([]order.Record, len(records))
	for i, r := range records {
		r.Items = slices.Clone(r.Items)
		out[i] = r
	}
	return out
}
