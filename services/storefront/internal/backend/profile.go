package backend

import (
	"context"
	"net/http"

	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
)

// Profile returns the signed-in customer's account.
func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	var record profileRecord
	if err := c.do(ctx, "get profile", http.MethodGet, "/user/profile", nil, &record); err != nil {
		return profile.Profile{}, err
	}
	if err := c.check("get profile", record); err != nil {
		return profile.Profile{}, err
	}
	return record.toProfile(), nil
}

// UpdateProfile saves the editable fields and returns the stored account.
func (c *Client) UpdateProfile(ctx context.Context, u profile.Update) (profile.Profile, error) {
	var record profileRecord
	if err := c.do(ctx, "update profile", http.MethodPut, "/user/profile", newProfilePayload(u), &record); err != nil {
		return profile.Profile{}, err
	}
	if err := c.check("update profile", record); err != nil {
		return profile.Profile{}, err
	}
	return record.toProfile(), nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, "change password", http.MethodPut, "/user/password", body, nil)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, "delete account", http.MethodDelete, "/user/account", nil, nil)
}
