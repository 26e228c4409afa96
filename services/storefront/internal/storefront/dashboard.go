package storefront

import "net/http"

const dashboardRecent = 3

// Dashboard summarises recent orders, bookings and the loyalty membership.
// Each section loads on its own, so one failing backend call leaves the
// others intact.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Dashboard")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	h.loadOrders(r, session)
	h.loadReservations(r, session)
	h.loadLoyalty(r, session, "")

	snap := session.Store.Snapshot()

	orders := make([]orderView, 0, dashboardRecent)
	for _, rec := range snap.Orders.Records {
		if len(orders) == dashboardRecent {
			break
		}
		orders = append(orders, newOrderView(rec))
	}

	bookings := make([]reservationView, 0, dashboardRecent)
	for _, res := range snap.Bookings.Items {
		if len(bookings) == dashboardRecent {
			break
		}
		bookings = append(bookings, newReservationView(res))
	}

	data := h.pageData(r, "Dashboard")
	data["Template"] = "dashboard"
	data["Orders"] = orders
	data["OrdersError"] = snap.Orders.Error
	data["Reservations"] = bookings
	data["ReservationsError"] = snap.Bookings.Error
	data["LoyaltyError"] = snap.Loyalty.Error
	if p := snap.Loyalty.Program; p != nil && p.Active(h.now()) {
		data["Program"] = newProgramView(*p, h.now())
	}

	h.renderTemplate(w, "dashboard.html", "base.html", data)
}
