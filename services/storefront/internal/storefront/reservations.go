package storefront

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

const (
	msgReservationsFailed  = "Failed to load reservations. Please try again later."
	msgReservationFailed   = "Failed to create reservation. Please try again."
	msgCancellationFailed  = "Failed to request cancellation. Please try again."
	msgUpdateFailed        = "Failed to request an update. Please try again."
	msgReservationUnknown  = "Reservation not found. Please reload the page."
	reservationInputLayout = "2006-01-02T15:04"
)

// Reservations lists the customer's table bookings.
func (h *Handler) Reservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Reservations")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	h.loadReservations(r, session)
	h.renderReservations(w, r, session, http.StatusOK, nil)
}

// CreateReservation books a table from the reservation form.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateReservation")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		session.Store.Dispatch(state.ReservationRejected{Message: "Failed to parse form. Please try again."})
		h.renderReservations(w, r, session, http.StatusBadRequest, nil)
		return
	}

	req, errs := parseReservationForm(r, h.now())
	if len(errs) > 0 {
		session.Store.Dispatch(state.ReservationRejected{Message: strings.Join(errs, "; ")})
		h.renderReservations(w, r, session, http.StatusBadRequest, r.PostForm)
		return
	}

	created, err := h.backend.CreateReservation(r.Context(), req)
	if err != nil {
		h.log().Info("cannot create reservation", "error", err)
		session.Store.Dispatch(state.ReservationRejected{Message: apperror.UserMessage(err, msgReservationFailed)})
		h.renderReservations(w, r, session, http.StatusOK, r.PostForm)
		return
	}

	session.Store.Dispatch(state.ReservationSaved{
		Reservation: created,
		Message:     "Table " + strconv.Itoa(created.TableNumber) + " reserved for " + created.At.Format("Jan 2, 2006 3:04 PM") + ".",
	})
	h.renderReservations(w, r, session, http.StatusOK, nil)
}

// CancelReservation asks staff to cancel a booking. The backend keeps the
// reservation until staff confirm.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CancelReservation")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	updated, err := h.backend.RequestReservationCancellation(r.Context(), id)
	if err != nil {
		h.log().Info("cannot request reservation cancellation", "reservation_id", id, "error", err)
		session.Store.Dispatch(state.ReservationRejected{Message: apperror.UserMessage(err, msgCancellationFailed)})
		h.renderReservations(w, r, session, http.StatusOK, nil)
		return
	}

	session.Store.Dispatch(state.ReservationSaved{
		Reservation: updated,
		Message:     "Cancellation requested for reservation #" + updated.ID + ".",
	})
	h.renderReservations(w, r, session, http.StatusOK, nil)
}

// RequestReservationUpdate asks staff to review a booking. The request
// resends the booking as the customer last saw it.
func (h *Handler) RequestReservationUpdate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.RequestReservationUpdate")
	defer finish()

	if !h.requireRole(w, r, "") {
		return
	}

	session := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	current, ok := findReservation(session.Store.Snapshot().Bookings.Items, id)
	if !ok {
		session.Store.Dispatch(state.ReservationRejected{Message: msgReservationUnknown})
		h.renderReservations(w, r, session, http.StatusNotFound, nil)
		return
	}

	req := reservation.Request{
		TableNumber:     current.TableNumber,
		Guests:          current.Guests,
		At:              current.At,
		SpecialRequests: current.SpecialRequests,
	}
	updated, err := h.backend.RequestReservationUpdate(r.Context(), id, req)
	if err != nil {
		h.log().Info("cannot request reservation update", "reservation_id", id, "error", err)
		session.Store.Dispatch(state.ReservationRejected{Message: apperror.UserMessage(err, msgUpdateFailed)})
		h.renderReservations(w, r, session, http.StatusOK, nil)
		return
	}

	session.Store.Dispatch(state.ReservationSaved{
		Reservation: updated,
		Message:     "Update requested for reservation #" + updated.ID + ".",
	})
	h.renderReservations(w, r, session, http.StatusOK, nil)
}

func findReservation(items []reservation.Reservation, id string) (reservation.Reservation, bool) {
	for _, res := range items {
		if res.ID == id {
			return res, true
		}
	}
	return reservation.Reservation{}, false
}

func (h *Handler) loadReservations(r *http.Request, session *Session) {
	session.Store.Dispatch(state.ReservationsRequested{})

	items, err := h.backend.ListReservations(r.Context())
	if err != nil {
		h.log().Info("cannot list reservations", "error", err)
		session.Store.Dispatch(state.ReservationsFailed{Message: apperror.UserMessage(err, msgReservationsFailed)})
		return
	}
	session.Store.Dispatch(state.ReservationsLoaded{Items: items})
}

// parseReservationForm reads the booking form. Blank numbers fall back to
// the form defaults; the date is read in the server's local zone.
func parseReservationForm(r *http.Request, now time.Time) (reservation.Request, []string) {
	req := reservation.Request{
		TableNumber:     reservation.DefaultTable,
		Guests:          reservation.DefaultGuests,
		SpecialRequests: strings.TrimSpace(r.PostFormValue("special_requests")),
	}

	var errs []string
	if v := strings.TrimSpace(r.PostFormValue("table_number")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, "table number must be a number")
		}
		req.TableNumber = n
	}
	if v := strings.TrimSpace(r.PostFormValue("guests")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, "number of guests must be a number")
		}
		req.Guests = n
	}
	if v := strings.TrimSpace(r.PostFormValue("date_time")); v != "" {
		at, err := time.ParseInLocation(reservationInputLayout, v, time.Local)
		if err != nil {
			errs = append(errs, "date and time are invalid")
		} else {
			req.At = at
		}
	}
	if len(errs) > 0 {
		return req, errs
	}

	return req, reservation.Validate(req, now)
}

func (h *Handler) renderReservations(w http.ResponseWriter, r *http.Request, session *Session, status int, form map[string][]string) {
	snap := session.Store.Snapshot()

	views := make([]reservationView, 0, len(snap.Bookings.Items))
	for _, res := range snap.Bookings.Items {
		views = append(views, newReservationView(res))
	}

	data := h.pageData(r, "Reservations")
	data["Template"] = "reservations"
	data["Reservations"] = views
	data["ReservationsError"] = snap.Bookings.Error
	data["Notice"] = snap.Bookings.Notice
	data["Form"] = newReservationForm(form)

	if isHTMX(r) && r.Header.Get("HX-Target") == "reservations" {
		h.renderTemplateStatus(w, status, "reservations.html", "reservations", data)
		return
	}
	h.renderTemplateStatus(w, status, "reservations.html", "base.html", data)
}
