package storefront

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

const (
	msgProfileFailed  = "Failed to fetch profile"
	msgProfileUpdate  = "Failed to update profile"
	msgProfileSaved   = "Profile updated successfully"
	msgPasswordFailed = "Failed to update password"
	msgPasswordSaved  = "Password updated successfully"
	msgDeleteFailed   = "Failed to delete account"
)

// Profile shows the customer's account details.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Profile")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	p, err := h.backend.Profile(r.Context())
	if err != nil {
		h.log().Info("cannot load profile", "error", err)
		h.renderProfile(w, r, http.StatusBadGateway, nil, map[string]interface{}{
			"ProfileError": apperror.UserMessage(err, msgProfileFailed),
		})
		return
	}
	h.renderProfile(w, r, http.StatusOK, &p, nil)
}

// UpdateProfile saves the editable fields. The session principal picks up
// the new name so the navigation reflects it at once.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateProfile")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderProfile(w, r, http.StatusBadRequest, h.storedProfile(r), map[string]interface{}{
			"ProfileError": "Failed to parse form. Please try again.",
		})
		return
	}

	update := profile.Update{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		Dietary:     profile.ParseList(r.FormValue("dietary")),
		NotifyEmail: r.FormValue("notify_email") != "",
		NotifySMS:   r.FormValue("notify_sms") != "",
	}
	echo := &profile.Profile{
		Name:        update.Name,
		Phone:       update.Phone,
		Address:     update.Address,
		Dietary:     update.Dietary,
		NotifyEmail: update.NotifyEmail,
		NotifySMS:   update.NotifySMS,
	}
	if id, ok := principalFrom(r).Identity(); ok {
		echo.Email = id.Email
	}
	if errs := update.Validate(); len(errs) > 0 {
		h.renderProfile(w, r, http.StatusBadRequest, echo, map[string]interface{}{
			"ProfileError": strings.Join(errs, "; "),
		})
		return
	}

	p, err := h.backend.UpdateProfile(r.Context(), update)
	if err != nil {
		h.log().Info("cannot update profile", "error", err)
		h.renderProfile(w, r, clientStatus(err), echo, map[string]interface{}{
			"ProfileError": apperror.UserMessage(err, msgProfileUpdate),
		})
		return
	}

	h.refreshPrincipal(r, p)
	h.renderProfile(w, r, http.StatusOK, &p, map[string]interface{}{
		"Notice": msgProfileSaved,
	})
}

// refreshPrincipal re-remembers the session credential with the saved name.
// A failure only leaves the old name in place.
func (h *Handler) refreshPrincipal(r *http.Request, p profile.Profile) {
	session := sessionFrom(r.Context())
	principal := session.Store.Snapshot().Auth.Principal
	id, ok := principal.Identity()
	if !ok || p.Name == "" || p.Name == id.Name {
		return
	}

	id.Name = p.Name
	updated, err := h.gate.Remember(r.Context(), session.ID, principal.Token(), id)
	if err != nil {
		h.log().Error("cannot refresh credential", "error", err)
		return
	}
	session.Store.Dispatch(state.SignedIn{Principal: updated})
}

// ChangePassword replaces the password after checking the confirmation.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ChangePassword")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	fail := func(status int, message string) {
		h.renderProfile(w, r, status, h.storedProfile(r), map[string]interface{}{"PasswordError": message})
	}

	if err := r.ParseForm(); err != nil {
		fail(http.StatusBadRequest, "Failed to parse form. Please try again.")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	switch {
	case current == "" || next == "":
		fail(http.StatusBadRequest, "Current and new password are required.")
		return
	case len(next) < minPasswordLength:
		fail(http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	case next != r.FormValue("confirm_password"):
		fail(http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.backend.ChangePassword(r.Context(), current, next); err != nil {
		h.log().Info("cannot change password", "error", err)
		fail(clientStatus(err), apperror.UserMessage(err, msgPasswordFailed))
		return
	}

	h.renderProfile(w, r, http.StatusOK, h.storedProfile(r), map[string]interface{}{"Notice": msgPasswordSaved})
}

// DeleteAccount removes the account and signs the session out. The form
// must carry confirm=yes.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteAccount")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	if err := r.ParseForm(); err != nil || r.FormValue("confirm") != "yes" {
		h.renderProfile(w, r, http.StatusBadRequest, h.storedProfile(r), map[string]interface{}{
			"ProfileError": "Please confirm that you want to delete your account.",
		})
		return
	}

	session := sessionFrom(r.Context())
	principal := session.Store.Snapshot().Auth.Principal
	if err := h.backend.DeleteAccount(r.Context()); err != nil {
		h.log().Info("cannot delete account", "error", err)
		h.renderProfile(w, r, clientStatus(err), h.storedProfile(r), map[string]interface{}{
			"ProfileError": apperror.UserMessage(err, msgDeleteFailed),
		})
		return
	}

	h.forget(r.Context(), session.ID)
	session.Store.Dispatch(state.SignedOut{})
	h.audit.LogAccountDeleted(r.Context(), principal)

	aqm.RedirectOrHeader(w, r, "/menu")
}

// storedProfile reloads the account so a password or delete message still
// shows the form. Nil when the backend cannot answer.
func (h *Handler) storedProfile(r *http.Request) *profile.Profile {
	p, err := h.backend.Profile(r.Context())
	if err != nil {
		h.log().Debug("cannot reload profile", "error", err)
		return nil
	}
	return &p
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, status int, p *profile.Profile, extra map[string]interface{}) {
	data := h.pageData(r, "Profile")
	data["Template"] = "profile"
	if p != nil {
		data["Profile"] = newProfileView(*p)
	}
	for k, v := range extra {
		data[k] = v
	}

	if isHTMX(r) && r.Header.Get("HX-Target") == "profile" {
		h.renderTemplateStatus(w, status, "profile.html", "profile", data)
		return
	}
	h.renderTemplateStatus(w, status, "profile.html", "base.html", data)
}

// clientStatus keeps a backend 4xx and maps everything else to 502.
func clientStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
