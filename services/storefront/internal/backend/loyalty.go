package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
)

// LoyaltyDashboard returns the customer's membership. A customer without
// one gets a 404, see IsNotFound.
func (c *Client) LoyaltyDashboard(ctx context.Context) (loyalty.Program, error) {
	var record loyaltyRecord
	if err := c.do(ctx, "loyalty dashboard", http.MethodGet, "/loyalty/dashboard", nil, &record); err != nil {
		return loyalty.Program{}, err
	}
	if err := c.check("loyalty dashboard", record); err != nil {
		return loyalty.Program{}, err
	}
	return record.toProgram(), nil
}

// SubscribeLoyalty enrolls the customer in a plan.
func (c *Client) SubscribeLoyalty(ctx context.Context, planID string) (loyalty.Program, error) {
	var record loyaltyRecord
	path := "/loyalty/subscribe/" + url.PathEscape(planID)
	if err := c.do(ctx, "subscribe loyalty", http.MethodPost, path, nil, &record); err != nil {
		return loyalty.Program{}, err
	}
	if err := c.check("subscribe loyalty", record); err != nil {
		return loyalty.Program{}, err
	}
	return record.toProgram(), nil
}

func (c *Client) ToggleLoyaltyAutoRenew(ctx context.Context) error {
	return c.do(ctx, "toggle auto-renew", http.MethodPut, "/loyalty/auto-renew", nil, nil)
}

func (c *Client) CancelLoyalty(ctx context.Context) error {
	return c.do(ctx, "cancel loyalty", http.MethodDelete, "/loyalty/subscription", nil, nil)
}
