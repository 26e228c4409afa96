package event

import "time"

const (
	OrdersTopic         = "storefront.orders"
	EventOrderPlaced    = "storefront.order.placed"
	EventOrderCancelled = "storefront.order.cancelled"
)

// OrderLine is one line of a placed order.
type OrderLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// OrderEvent is published to NATS whenever the storefront places or
// cancels an order on a customer's behalf. Amounts are decimal strings.
type OrderEvent struct {
	EventType    string      `json:"event_type"`
	OccurredAt   time.Time   `json:"occurred_at"`
	OrderID      string      `json:"order_id"`
	Correlation  string      `json:"correlation,omitempty"`
	CustomerID   string      `json:"customer_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	Status       string      `json:"status"`
	TotalAmount  string      `json:"total_amount,omitempty"`
	ItemCount    int         `json:"item_count,omitempty"`
	Lines        []OrderLine `json:"lines,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}
