package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

// ListReservations returns the signed-in customer's reservations.
func (c *Client) ListReservations(ctx context.Context) ([]reservation.Reservation, error) {
	var records []reservationRecord
	if err := c.do(ctx, "list reservations", http.MethodGet, "/reservations", nil, &records); err != nil {
		return nil, err
	}

	out := make([]reservation.Reservation, 0, len(records))
	for _, r := range records {
		if err := c.check("list reservations", r); err != nil {
			return nil, err
		}
		out = append(out, r.toReservation())
	}
	return out, nil
}

// CreateReservation books a table.
func (c *Client) CreateReservation(ctx context.Context, req reservation.Request) (reservation.Reservation, error) {
	var record reservationRecord
	if err := c.do(ctx, "create reservation", http.MethodPost, "/reservations", newReservationPayload(req), &record); err != nil {
		return reservation.Reservation{}, err
	}
	if err := c.check("create reservation", record); err != nil {
		return reservation.Reservation{}, err
	}
	return record.toReservation(), nil
}

// RequestReservationCancellation asks staff to cancel a reservation.
func (c *Client) RequestReservationCancellation(ctx context.Context, id string) (reservation.Reservation, error) {
	var record reservationRecord
	path := "/reservations/" + url.PathEscape(id) + "/request-cancellation"
	if err := c.do(ctx, "request reservation cancellation", http.MethodPut, path, nil, &record); err != nil {
		return reservation.Reservation{}, err
	}
	if err := c.check("request reservation cancellation", record); err != nil {
		return reservation.Reservation{}, err
	}
	return record.toReservation(), nil
}

// RequestReservationUpdate asks staff to review a booking with the given
// details.
func (c *Client) RequestReservationUpdate(ctx context.Context, id string, req reservation.Request) (reservation.Reservation, error) {
	body := newReservationPayload(req)
	body.ReservationID = flexID(id)
	body.RequestType = "UPDATE"

	var record reservationRecord
	if err := c.do(ctx, "request reservation update", http.MethodPut, "/reservations/request-update", body, &record); err != nil {
		return reservation.Reservation{}, err
	}
	if err := c.check("request reservation update", record); err != nil {
		return reservation.Reservation{}, err
	}
	return record.toReservation(), nil
}
