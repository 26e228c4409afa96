package storefront

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

const (
	msgOrdersFailed = "Failed to load orders. Please try again later."
	msgCancelFailed = "Failed to cancel order. Please try again."
	receiptsLimit   = 10
)

// Orders lists the signed-in customer's order history.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Orders")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	h.loadOrders(r, session)
	h.renderOrders(w, r, session, r.URL.Query().Get("notice"))
}

func (h *Handler) loadOrders(r *http.Request, session *Session) {
	session.Store.Dispatch(state.OrdersRequested{})

	records, err := h.backend.ListOrders(r.Context())
	if err != nil {
		h.log().Info("cannot list orders", "error", err)
		session.Store.Dispatch(state.OrdersFailed{Message: apperror.UserMessage(err, msgOrdersFailed)})
		return
	}
	session.Store.Dispatch(state.OrdersLoaded{Records: records})
}

// CancelOrder cancels one order and re-renders the history.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CancelOrder")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	orderID := chi.URLParam(r, "id")
	reason := "Cancelled by customer"
	if err := r.ParseForm(); err == nil {
		if v := strings.TrimSpace(r.FormValue("reason")); v != "" {
			reason = v
		}
	}

	principal := session.Store.Snapshot().Auth.Principal
	record, err := h.backend.CancelOrder(r.Context(), orderID, reason)
	if err != nil {
		h.log().Info("cannot cancel order", "order_id", orderID, "error", err)
		h.audit.LogCancel(r.Context(), principal, orderID, false, err.Error())
		session.Store.Dispatch(state.OrdersFailed{Message: apperror.UserMessage(err, msgCancelFailed)})
		h.renderOrders(w, r, session, "")
		return
	}

	session.Store.Dispatch(state.OrderUpdated{Record: record})
	h.audit.LogCancel(r.Context(), principal, orderID, true, "")

	if h.receipts != nil {
		if err := h.receipts.UpdateStatus(r.Context(), record.ID, record.Status); err != nil {
			h.log().Error("cannot update receipt", "order_id", record.ID, "error", err)
		}
	}
	if h.notifier != nil {
		if id, ok := principal.Identity(); ok {
			if err := h.notifier.OrderCancelled(r.Context(), record, id, reason); err != nil {
				h.log().Error("cannot publish cancellation", "order_id", record.ID, "error", err)
			}
		}
	}

	h.renderOrders(w, r, session, "Order #"+record.ID+" cancelled.")
}

func (h *Handler) renderOrders(w http.ResponseWriter, r *http.Request, session *Session, notice string) {
	snap := session.Store.Snapshot()

	views := make([]orderView, 0, len(snap.Orders.Records))
	for _, rec := range snap.Orders.Records {
		views = append(views, newOrderView(rec))
	}

	data := h.pageData(r, "My Orders")
	data["Template"] = "orders"
	data["Orders"] = views
	data["OrdersError"] = snap.Orders.Error
	data["Notice"] = notice

	if h.receipts != nil {
		if id, ok := snap.Auth.Principal.Identity(); ok && id.CustomerID != "" {
			receipts, err := h.receipts.ListByCustomer(r.Context(), id.CustomerID, receiptsLimit)
			if err != nil {
				h.log().Error("cannot list receipts", "error", err)
			} else {
				recent := make([]orderView, 0, len(receipts))
				for _, rc := range receipts {
					recent = append(recent, newOrderView(rc.Record()))
				}
				data["Receipts"] = recent
			}
		}
	}

	if isHTMX(r) && r.Header.Get("HX-Target") == "orders" {
		h.renderTemplate(w, "orders.html", "orders", data)
		return
	}
	h.renderTemplate(w, "orders.html", "base.html", data)
}
