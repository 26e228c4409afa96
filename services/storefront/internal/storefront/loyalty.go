package storefront

import (
	"net/http"
	"strings"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

const (
	msgLoyaltyFailed   = "Failed to load your loyalty membership. Please try again later."
	msgSubscribeFailed = "Failed to subscribe. Please try again."
	msgLoyaltyUpdate   = "Failed to update your membership. Please try again."
)

// Loyalty shows the customer's membership, or the plans on offer when
// they have none.
func (h *Handler) Loyalty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Loyalty")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	h.loadLoyalty(r, session, "")
	h.renderLoyalty(w, r, session)
}

// SubscribeLoyalty enrolls the customer in the chosen plan.
func (h *Handler) SubscribeLoyalty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.SubscribeLoyalty")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	planID := ""
	if err := r.ParseForm(); err == nil {
		planID = strings.TrimSpace(r.FormValue("plan_id"))
	}
	plan, ok := loyalty.FindPlan(h.plans, planID)
	if !ok {
		session.Store.Dispatch(state.LoyaltyFailed{Message: "Please choose a plan."})
		h.renderLoyalty(w, r, session)
		return
	}

	program, err := h.backend.SubscribeLoyalty(r.Context(), plan.ID)
	if err != nil {
		h.log().Info("cannot subscribe to loyalty plan", "plan_id", plan.ID, "error", err)
		session.Store.Dispatch(state.LoyaltyFailed{Message: apperror.UserMessage(err, msgSubscribeFailed)})
		h.renderLoyalty(w, r, session)
		return
	}

	session.Store.Dispatch(state.LoyaltyLoaded{Program: &program, Message: "Welcome to the " + plan.Name + " plan."})
	h.renderLoyalty(w, r, session)
}

// ToggleAutoRenew flips auto-renewal and reloads the membership.
func (h *Handler) ToggleAutoRenew(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ToggleAutoRenew")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	if err := h.backend.ToggleLoyaltyAutoRenew(r.Context()); err != nil {
		h.log().Info("cannot toggle auto-renew", "error", err)
		session.Store.Dispatch(state.LoyaltyFailed{Message: apperror.UserMessage(err, msgLoyaltyUpdate)})
		h.renderLoyalty(w, r, session)
		return
	}

	h.loadLoyalty(r, session, "Auto-renew updated.")
	h.renderLoyalty(w, r, session)
}

// CancelLoyalty ends the membership.
func (h *Handler) CancelLoyalty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CancelLoyalty")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	if err := h.backend.CancelLoyalty(r.Context()); err != nil {
		h.log().Info("cannot cancel loyalty membership", "error", err)
		session.Store.Dispatch(state.LoyaltyFailed{Message: apperror.UserMessage(err, msgLoyaltyUpdate)})
		h.renderLoyalty(w, r, session)
		return
	}

	h.loadLoyalty(r, session, "Your membership has been cancelled.")
	h.renderLoyalty(w, r, session)
}

// loadLoyalty fetches the membership. A 404 means the customer is not
// enrolled, which is not an error.
func (h *Handler) loadLoyalty(r *http.Request, session *Session, message string) {
	session.Store.Dispatch(state.LoyaltyRequested{})

	program, err := h.backend.LoyaltyDashboard(r.Context())
	switch {
	case backend.IsNotFound(err):
		session.Store.Dispatch(state.LoyaltyLoaded{Message: message})
	case err != nil:
		h.log().Info("cannot load loyalty dashboard", "error", err)
		session.Store.Dispatch(state.LoyaltyFailed{Message: apperror.UserMessage(err, msgLoyaltyFailed)})
	default:
		session.Store.Dispatch(state.LoyaltyLoaded{Program: &program, Message: message})
	}
}

func (h *Handler) renderLoyalty(w http.ResponseWriter, r *http.Request, session *Session) {
	snap := session.Store.Snapshot()

	data := h.pageData(r, "Loyalty")
	data["Template"] = "loyalty"
	data["LoyaltyError"] = snap.Loyalty.Error
	data["Notice"] = snap.Loyalty.Notice
	data["Plans"] = h.plans
	if snap.Loyalty.Program != nil {
		data["Program"] = newProgramView(*snap.Loyalty.Program, h.now())
	}

	if isHTMX(r) && r.Header.Get("HX-Target") == "loyalty" {
		h.renderTemplate(w, "loyalty.html", "loyalty", data)
		return
	}
	h.renderTemplate(w, "loyalty.html", "base.html", data)
}
