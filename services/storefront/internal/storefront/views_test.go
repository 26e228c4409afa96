package storefront

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zero", "0", "$0.00"},
		{"whole", "12", "$12.00"},
		{"cents", "9.5", "$9.50"},
		{"rounding", "3.456", "$3.46"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("formatMoney(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewCartView(t *testing.T) {
	c := cart.New(
		cart.Line{ID: "a", Item: menu.Item{ID: "1", Name: "Soup", Price: decimal.RequireFromString("4.10")}, Quantity: 3},
		cart.Line{ID: "b", Item: menu.Item{ID: "2", Name: "Bread", Price: decimal.RequireFromString("1.20")}, Quantity: 1},
	)

	view := newCartView(c, state.CheckoutState{Phase: state.PhaseSubmitting})

	if view.ItemCount != 4 {
		t.Errorf("ItemCount = %d, want 4", view.ItemCount)
	}
	if view.Total != "$13.50" {
		t.Errorf("Total = %s, want $13.50", view.Total)
	}
	if !view.Submitting || view.Empty {
		t.Errorf("Submitting = %v Empty = %v", view.Submitting, view.Empty)
	}
	if view.Lines[0].Subtotal != "$12.30" {
		t.Errorf("Subtotal = %s, want $12.30", view.Lines[0].Subtotal)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{order.StatusPending, "status-pending"},
		{order.StatusPreparing, "status-active"},
		{order.StatusDelivered, "status-done"},
		{order.StatusCancelled, "status-cancelled"},
		{"LOST", "status-unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := statusClass(tt.status); got != tt.want {
				t.Errorf("statusClass(%s) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Downtown, ,uptown ,")
	if len(got) != 2 || got[0] != "downtown" || got[1] != "uptown" {
		t.Errorf("splitList = %v", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"downtown", "Downtown"},
		{"west side", "West Side"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
