package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
)

// Order statuses as reported by the backend.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Line is the frozen (item, quantity, price) triple sent for one cart line.
type Line struct {
	ItemID   string
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Request is the payload of a single submission. It is built from a cart
// snapshot and never changes afterwards.
type Request struct {
	Correlation  string
	CustomerID   string
	CustomerName string
	Items        []Line
	TotalAmount  decimal.Decimal
	PlacedAt     time.Time
	Note         string
}

// Result is the backend's answer to a successful submission.
type Result struct {
	OrderID string
	Status  string
}

// Record is an order as listed in the customer's history.
type Record struct {
	ID          string
	Status      string
	TotalAmount decimal.Decimal
	PlacedAt    time.Time
	Items       []Line
	Note        string
	Fulfilled   bool
}

// Cancellable reports whether the order may still be cancelled.
func (r Record) Cancellable() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// FromCart freezes the cart's lines and total into a request.
func FromCart(c cart.Cart, customerID, customerName, correlation string, placedAt time.Time, note string) Request {
	lines := c.Lines()
	items := make([]Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, Line{
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Price:    l.Item.Price,
		})
	}

	return Request{
		Correlation:  correlation,
		CustomerID:   customerID,
		CustomerName: customerName,
		Items:        items,
		TotalAmount:  c.Totals().Amount,
		PlacedAt:     placedAt,
		Note:         note,
	}
}

// ItemCount is the sum of the line quantities.
func (r Request) ItemCount() int {
	n := 0
	for _, l := range r.Items {
		n += l.Quantity
	}
	return n
}
