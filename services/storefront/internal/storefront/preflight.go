package storefront

import (
	"net/http"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
)

// requireRole gates a page. Anonymous visitors go to sign-in; signed-in
// users without the role get the not-authorized view. An empty role only
// requires a signed-in user.
func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, role string) bool {
	decision := identity.Authorize(principalFrom(r), role)

	switch decision {
	case identity.Allow:
		return true
	case identity.SignInRequired:
		if isHTMX(r) {
			w.Header().Set("HX-Redirect", "/signin")
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
	default:
		data := h.pageData(r, "Not Authorized")
		data["Template"] = "forbidden"
		data["Role"] = role
		h.renderTemplateStatus(w, http.StatusForbidden, "forbidden.html", "base.html", data)
	}

	h.log().Debug("access denied", "path", r.URL.Path, "role", role, "decision", decision.String())
	return false
}
