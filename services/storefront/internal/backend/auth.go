package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
)

// SignIn exchanges credentials for a bearer token and the user's profile.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, identity.Identity, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var record signInRecord
	if err := c.do(ctx, "sign in", http.MethodPost, "/auth/signin", body, &record); err != nil {
		return "", identity.Identity{}, err
	}
	return c.credential("sign in", record)
}

// SignUp registers a customer. The backend signs the new account in.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (string, identity.Identity, error) {
	body := signUpPayload{Name: name, Email: email, Password: password}

	var record signInRecord
	if err := c.do(ctx, "sign up", http.MethodPost, "/auth/signup", body, &record); err != nil {
		return "", identity.Identity{}, err
	}
	return c.credential("sign up", record)
}

func (c *Client) credential(op string, record signInRecord) (string, identity.Identity, error) {
	token := record.Token
	if token == "" {
		token = record.AccessToken
	}
	if token == "" {
		return "", identity.Identity{}, &ParseError{Op: op, Err: errors.New("missing token")}
	}

	var profile identity.Identity
	if record.User != nil {
		if err := c.check(op, *record.User); err != nil {
			return "", identity.Identity{}, err
		}
		profile = record.User.toIdentity()
	}

	return token, profile, nil
}

// ResolveIdentity asks the backend who owns the bearer token in ctx.
func (c *Client) ResolveIdentity(ctx context.Context) (identity.Identity, error) {
	var record userRecord
	if err := c.do(ctx, "validate token", http.MethodGet, "/auth/validate", nil, &record); err != nil {
		return identity.Identity{}, err
	}
	if err := c.check("validate token", record); err != nil {
		return identity.Identity{}, err
	}
	return record.toIdentity(), nil
}

// RequestPasswordReset asks the backend to mail a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, "request password reset", http.MethodPost, "/auth/password-reset-request", body, nil)
}

// ValidateResetToken returns nil when token can still reset a password.
func (c *Client) ValidateResetToken(ctx context.Context, token string) error {
	path := "/auth/validate-reset-token/" + url.PathEscape(token)
	return c.do(ctx, "validate reset token", http.MethodGet, path, nil, nil)
}

// ResetPassword sets a new password with a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := resetPasswordPayload{Token: token, NewPassword: password, ConfirmPassword: password}
	return c.do(ctx, "reset password", http.MethodPost, "/auth/reset-password", body, nil)
}
