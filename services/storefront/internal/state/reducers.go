package state

import (
	"slices"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

// Reduce applies a to s. Each slice has its own reducer; the result is the
// composition of all of them.
func Reduce(s AppState, a Action) AppState {
	// A success outside a submission must not clear the cart.
	if _, ok := a.(SubmissionSucceeded); ok && s.Checkout.Phase != PhaseSubmitting {
		return s
	}

	s.Auth = reduceAuth(s.Auth, a)
	s.Catalog = reduceCatalog(s.Catalog, a)
	s.Cart = reduceCart(s.Cart, a)
	s.Checkout = reduceCheckout(s.Checkout, a)
	s.Orders = reduceOrders(s.Orders, a)
	s.Bookings = reduceBookings(s.Bookings, a)
	s.Loyalty = reduceLoyalty(s.Loyalty, a)
	return s
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case SignedIn:
		s.Principal = a.Principal.Clone()
	case SignedOut:
		s.Principal = identity.Anonymous()
	}
	return s
}

func reduceCatalog(s CatalogState, a Action) CatalogState {
	switch a := a.(type) {
	case CatalogRequested:
		s.Ticket++
		s.Location = menu.NormalizeLocation(a.Location)
		s.Loading = true
		s.Error = ""
	case CatalogLoaded:
		if a.Ticket != s.Ticket {
			return s
		}
		s.Loading = false
		s.Items = slices.Clone(a.Items)
		s.Error = ""
	case CatalogFailed:
		if a.Ticket != s.Ticket {
			return s
		}
		s.Loading = false
		s.Items = nil
		s.Error = a.Message
	}
	return s
}

func reduceCart(c cart.Cart, a Action) cart.Cart {
	switch a := a.(type) {
	case ItemAdded:
		return c.Add(a.LineID, a.Item)
	case LineAdjusted:
		return c.Adjust(a.LineID, a.Delta)
	case CartCleared, SubmissionSucceeded:
		return c.Clear()
	}
	return c
}

func reduceCheckout(s CheckoutState, a Action) CheckoutState {
	switch a := a.(type) {
	case SubmissionRejected:
		s.Notice = Notice{Severity: SeverityError, Message: a.Message}
	case SubmissionStarted:
		if s.Phase == PhaseSubmitting {
			return s
		}
		s.Phase = PhaseSubmitting
		s.Correlation = a.Correlation
		s.Notice = Notice{}
	case SubmissionSucceeded:
		if s.Phase != PhaseSubmitting {
			return s
		}
		s.Phase = PhaseSucceeded
		s.LastOrderID = a.Result.OrderID
		s.Notice = Notice{Severity: SeveritySuccess, Message: a.Message}
	case SubmissionFailed:
		if s.Phase != PhaseSubmitting {
			return s
		}
		s.Phase = PhaseFailed
		s.Notice = Notice{Severity: SeverityError, Message: a.Message}
	case SubmissionSettled:
		if s.Phase == PhaseSucceeded || s.Phase == PhaseFailed {
			s.Phase = PhaseIdle
			s.Correlation = ""
		}
	case NoticeDismissed:
		s.Notice = Notice{}
	case SignedOut:
		s.Notice = Notice{}
	}
	return s
}

func reduceOrders(s OrdersState, a Action) OrdersState {
	switch a := a.(type) {
	case OrdersRequested:
		s.Loading = true
		s.Error = ""
	case OrdersLoaded:
		s.Loading = false
		s.Records = cloneRecords(a.Records)
		s.Error = ""
	case OrdersFailed:
		s.Loading = false
		s.Error = a.Message
	case OrderUpdated:
		records := cloneRecords(s.Records)
		for i := range records {
			if records[i].ID == a.Record.ID {
				records[i] = a.Record
			}
		}
		s.Records = records
	case SignedOut:
		return OrdersState{}
	}
	return s
}

func reduceBookings(s ReservationsState, a Action) ReservationsState {
	switch a := a.(type) {
	case ReservationsRequested:
		s.Loading = true
		s.Error = ""
	case ReservationsLoaded:
		s.Loading = false
		s.Items = slices.Clone(a.Items)
		s.Error = ""
	case ReservationsFailed:
		s.Loading = false
		s.Error = a.Message
	case ReservationSaved:
		items := slices.Clone(s.Items)
		i := slices.IndexFunc(items, func(r reservation.Reservation) bool {
			return r.ID == a.Reservation.ID
		})
		if i >= 0 {
			items[i] = a.Reservation
		} else {
			items = append([]reservation.Reservation{a.Reservation}, items...)
		}
		s.Items = items
		s.Notice = Notice{Severity: SeveritySuccess, Message: a.Message}
		if a.Message == "" {
			s.Notice = Notice{}
		}
	case ReservationRejected:
		s.Notice = Notice{Severity: SeverityError, Message: a.Message}
	case SignedOut:
		return ReservationsState{}
	}
	return s
}

func reduceLoyalty(s LoyaltyState, a Action) LoyaltyState {
	switch a := a.(type) {
	case LoyaltyRequested:
		s.Loading = true
		s.Error = ""
	case LoyaltyLoaded:
		s.Loading = false
		s.Loaded = true
		s.Program = cloneProgram(a.Program)
		s.Error = ""
		s.Notice = Notice{}
		if a.Message != "" {
			s.Notice = Notice{Severity: SeveritySuccess, Message: a.Message}
		}
	case LoyaltyFailed:
		s.Loading = false
		s.Error = a.Message
	case SignedOut:
		return LoyaltyState{}
	}
	return s
}
