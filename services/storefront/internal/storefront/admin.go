package storefront

import (
	"net/http"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
)

// Admin shows the operator overview. ADMIN only.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Admin")
	defer finish()

	if !h.requireRole(w, r, identity.RoleAdmin) {
		return
	}

	data := h.pageData(r, "Admin")
	data["Template"] = "admin"
	data["ActiveSessions"] = h.sessions.Len()
	data["Locations"] = h.locationViews(h.defaultLocation)
	data["EventsEnabled"] = h.notifier != nil
	data["ReceiptsEnabled"] = h.receipts != nil
	h.renderTemplate(w, "admin.html", "base.html", data)
}
