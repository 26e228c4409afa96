package storefront

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

func TestDashboardRequiresSignIn(t *testing.T) {
	s := newTestServer(t, &MockBackend{})

	rec := s.do(t, http.MethodGet, "/dashboard", nil, true)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("HX-Redirect") != "/signin" {
		t.Fatalf("status = %d, HX-Redirect = %q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestDashboard(t *testing.T) {
	var records []order.Record
	for _, id := range []string{"1", "2", "3", "4"} {
		records = append(records, order.Record{ID: id, Status: order.StatusPending, TotalAmount: decimal.NewFromInt(5)})
	}
	be := &MockBackend{
		Orders: records,
		Reservations: []reservation.Reservation{
			{ID: "9", TableNumber: 4, Guests: 2, Status: reservation.StatusConfirmed},
		},
		Program: &loyalty.Program{Tier: "GOLD", Points: 80, ExpiresAt: time.Now().Add(24 * time.Hour)},
	}
	s := newTestServer(t, be)
	signInAs(t, s)

	rec := s.do(t, http.MethodGet, "/dashboard", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	last := s.renderer.Last()
	if last.Page != "dashboard.html" {
		t.Fatalf("page = %s", last.Page)
	}
	if got := len(last.Data["Orders"].([]orderView)); got != dashboardRecent {
		t.Errorf("orders = %d, want %d", got, dashboardRecent)
	}
	if got := len(last.Data["Reservations"].([]reservationView)); got != 1 {
		t.Errorf("reservations = %d, want 1", got)
	}
	if view, ok := last.Data["Program"].(programView); !ok || view.Tier != "Gold" || view.Points != 80 {
		t.Errorf("Program = %+v", last.Data["Program"])
	}
}

func TestDashboardSectionFailure(t *testing.T) {
	be := &MockBackend{
		Orders:         []order.Record{{ID: "1", Status: order.StatusDelivered, TotalAmount: decimal.NewFromInt(5)}},
		ReservationErr: &backend.APIError{Status: http.StatusInternalServerError},
	}
	s := newTestServer(t, be)
	signInAs(t, s)

	rec := s.do(t, http.MethodGet, "/dashboard", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	last := s.renderer.Last()
	if last.Data["ReservationsError"] != msgReservationsFailed {
		t.Errorf("ReservationsError = %v", last.Data["ReservationsError"])
	}
	if got := len(last.Data["Orders"].([]orderView)); got != 1 {
		t.Errorf("orders = %d, want 1", got)
	}
	if _, ok := last.Data["Program"]; ok {
		t.Error("Program should be absent when not enrolled")
	}
	if last.Data["LoyaltyError"] != "" {
		t.Errorf("LoyaltyError = %v, want none for a customer without membership", last.Data["LoyaltyError"])
	}
}
