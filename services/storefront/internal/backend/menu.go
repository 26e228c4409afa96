package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
)

// FetchMenu lists the items served at location.
func (c *Client) FetchMenu(ctx context.Context, location string) ([]menu.Item, error) {
	location = menu.NormalizeLocation(location)

	var records []menuItemRecord
	if err := c.do(ctx, "fetch menu", http.MethodGet, "/menu/"+url.PathEscape(location), nil, &records); err != nil {
		return nil, err
	}

	items := make([]menu.Item, 0, len(records))
	for _, r := range records {
		if err := c.check("fetch menu", r); err != nil {
			return nil, err
		}
		items = append(items, r.toItem())
	}

	c.log().Debug("menu fetched", "location", location, "items", len(items))
	return items, nil
}
