package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/pkg/event"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
)

// OrderNotifier publishes order lifecycle events.
type OrderNotifier struct {
	publisher Publisher
	logger    aqm.Logger
	now       func() time.Time
}

func NewOrderNotifier(publisher Publisher, logger aqm.Logger) *OrderNotifier {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &OrderNotifier{publisher: publisher, logger: logger, now: time.Now}
}

// OrderPlaced publishes a storefront.order.placed event.
func (n *OrderNotifier) OrderPlaced(ctx context.Context, req order.Request, res order.Result) error {
	lines := make([]event.OrderLine, 0, len(req.Items))
	for _, l := range req.Items {
		lines = append(lines, event.OrderLine{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price.String(),
		})
	}

	evt := event.OrderEvent{
		EventType:    event.EventOrderPlaced,
		OccurredAt:   n.now().UTC(),
		OrderID:      res.OrderID,
		Correlation:  req.Correlation,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Status:       res.Status,
		TotalAmount:  req.TotalAmount.String(),
		ItemCount:    req.ItemCount(),
		Lines:        lines,
	}
	return n.publish(ctx, evt)
}

// OrderCancelled publishes a storefront.order.cancelled event.
func (n *OrderNotifier) OrderCancelled(ctx context.Context, rec order.Record, customer identity.Identity, reason string) error {
	evt := event.OrderEvent{
		EventType:    event.EventOrderCancelled,
		OccurredAt:   n.now().UTC(),
		OrderID:      rec.ID,
		CustomerID:   customer.CustomerID,
		CustomerName: customer.DisplayName(),
		Status:       rec.Status,
		Reason:       reason,
	}
	return n.publish(ctx, evt)
}

func (n *OrderNotifier) publish(ctx context.Context, evt event.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.EventType, err)
	}
	if err := n.publisher.Publish(ctx, event.OrdersTopic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType, err)
	}
	n.logger.Debug("order event published", "event", evt.EventType, "order_id", evt.OrderID)
	return nil
}
