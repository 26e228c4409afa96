package storefront

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
)

const (
	msgResetRequested  = "If an account exists for that email, a reset link is on its way."
	msgResetFailed     = "Failed to reset password. Please try again."
	msgResetLinkFailed = "Failed to request password reset. Please try again."
	msgResetDone       = "Your password has been reset. You can sign in now."
)

// ShowForgotPassword displays the reset request form.
func (h *Handler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowForgotPassword")
	defer finish()

	h.renderPassword(w, r, http.StatusOK, "forgot_password.html", nil)
}

// HandleForgotPassword asks the backend to mail a reset link.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleForgotPassword")
	defer finish()

	email := ""
	if err := r.ParseForm(); err == nil {
		email = strings.TrimSpace(r.FormValue("email"))
	}
	if !strings.Contains(email, "@") {
		h.renderPassword(w, r, http.StatusBadRequest, "forgot_password.html", map[string]interface{}{
			"Error": "Please enter a valid email address.",
		})
		return
	}

	if err := h.backend.RequestPasswordReset(r.Context(), email); err != nil {
		h.log().Info("password reset request failed", "error", err)
		h.renderPassword(w, r, http.StatusBadGateway, "forgot_password.html", map[string]interface{}{
			"Error": apperror.UserMessage(err, msgResetLinkFailed),
			"Email": email,
		})
		return
	}

	h.renderPassword(w, r, http.StatusOK, "forgot_password.html", map[string]interface{}{
		"Success": msgResetRequested,
	})
}

// ShowResetPassword checks the token before offering the form.
func (h *Handler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowResetPassword")
	defer finish()

	token := chi.URLParam(r, "token")
	if !h.resetTokenValid(r, token) {
		h.renderPassword(w, r, http.StatusOK, "reset_password.html", map[string]interface{}{
			"InvalidToken": true,
		})
		return
	}

	h.renderPassword(w, r, http.StatusOK, "reset_password.html", map[string]interface{}{
		"Token": token,
	})
}

// HandleResetPassword sets the new password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleResetPassword")
	defer finish()

	token := chi.URLParam(r, "token")
	renderError := func(status int, message string) {
		h.renderPassword(w, r, status, "reset_password.html", map[string]interface{}{
			"Token": token,
			"Error": message,
		})
	}

	if err := r.ParseForm(); err != nil {
		renderError(http.StatusBadRequest, "Failed to parse form. Please try again.")
		return
	}

	password := r.FormValue("password")
	switch {
	case len(password) < minPasswordLength:
		renderError(http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	case password != r.FormValue("confirm_password"):
		renderError(http.StatusBadRequest, "Passwords do not match.")
		return
	}

	if err := h.backend.ResetPassword(r.Context(), token, password); err != nil {
		h.log().Info("password reset failed", "error", err)
		renderError(http.StatusBadRequest, apperror.UserMessage(err, msgResetFailed))
		return
	}

	h.renderPassword(w, r, http.StatusOK, "reset_password.html", map[string]interface{}{
		"Success": msgResetDone,
	})
}

// resetTokenValid treats any client error as an unusable token. Backend
// outages still show the form; the reset call reports them.
func (h *Handler) resetTokenValid(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	err := h.backend.ValidateResetToken(r.Context(), token)
	if err == nil {
		return true
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return false
	}
	h.log().Info("cannot validate reset token", "error", err)
	return true
}

func (h *Handler) renderPassword(w http.ResponseWriter, r *http.Request, status int, page string, extra map[string]interface{}) {
	data := h.pageData(r, "Reset Password")
	data["Template"] = strings.TrimSuffix(page, ".html")
	data["HideNav"] = true
	for k, v := range extra {
		data[k] = v
	}
	h.renderTemplateStatus(w, status, page, "base.html", data)
}
