package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/appetiteclub/storefront/services/storefront/internal/order"
)

// CorrelationHeader carries the client-chosen correlation value.
const CorrelationHeader = "X-Correlation-ID"

// SubmitOrder posts a new order.
func (c *Client) SubmitOrder(ctx context.Context, req order.Request) (order.Result, error) {
	header := http.Header{}
	if req.Correlation != "" {
		header.Set(CorrelationHeader, req.Correlation)
	}

	var record orderResultRecord
	if err := c.send(ctx, "submit order", http.MethodPost, "/orders", header, newOrderPayload(req), &record); err != nil {
		return order.Result{}, err
	}
	if err := c.check("submit order", record); err != nil {
		return order.Result{}, err
	}

	return record.toResult(), nil
}

// ListOrders returns the signed-in customer's orders.
func (c *Client) ListOrders(ctx context.Context) ([]order.Record, error) {
	var records []orderRecord
	if err := c.do(ctx, "list orders", http.MethodGet, "/orders", nil, &records); err != nil {
		return nil, err
	}

	out := make([]order.Record, 0, len(records))
	for _, r := range records {
		if err := c.check("list orders", r); err != nil {
			return nil, err
		}
		out = append(out, r.toRecord())
	}
	return out, nil
}

// CancelOrder asks the backend to cancel an order.
func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (order.Record, error) {
	body := map[string]string{"reason": reason}

	var record orderRecord
	path := "/orders/" + url.PathEscape(orderID) + "/cancel"
	if err := c.do(ctx, "cancel order", http.MethodPut, path, body, &record); err != nil {
		return order.Record{}, err
	}
	if err := c.check("cancel order", record); err != nil {
		return order.Record{}, err
	}

	return record.toRecord(), nil
}
