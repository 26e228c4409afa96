package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

func TestListReservations(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantLen int
	}{
		{
			name:    "success",
			body:    `[{"id":3,"tableNumber":4,"numberOfGuests":2,"reservationDateTime":"2026-03-05T19:30:00","status":"confirmed","customerId":7}]`,
			wantLen: 1,
		},
		{name: "missingID", body: `[{"tableNumber":4}]`, wantErr: true},
		{name: "negativeGuests", body: `[{"id":1,"numberOfGuests":-1}]`, wantErr: true},
		{name: "empty", body: `[]`, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/reservations" {
					t.Errorf("request = %s %s", r.Method, r.URL.Path)
				}
				writeJSON(w, http.StatusOK, tt.body)
			}))
			defer server.Close()

			got, err := newTestClient(server).ListReservations(identity.WithToken(context.Background(), "tok"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListReservations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen == 1 {
				r := got[0]
				want := time.Date(2026, 3, 5, 19, 30, 0, 0, time.UTC)
				if r.ID != "3" || r.TableNumber != 4 || r.Guests != 2 || !r.At.Equal(want) {
					t.Errorf("reservation = %+v", r)
				}
				if r.Status != reservation.StatusConfirmed {
					t.Errorf("Status = %q, want CONFIRMED", r.Status)
				}
			}
		})
	}
}

func TestCreateReservation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reservations" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["tableNumber"] != float64(5) || body["numberOfGuests"] != float64(3) {
			t.Errorf("body = %v", body)
		}
		if body["reservationDateTime"] != "2026-03-05T19:30:00" {
			t.Errorf("reservationDateTime = %v", body["reservationDateTime"])
		}
		if body["specialRequests"] != "window seat" {
			t.Errorf("specialRequests = %v", body["specialRequests"])
		}
		writeJSON(w, http.StatusCreated, `{"id":10,"tableNumber":5,"numberOfGuests":3,"reservationDateTime":"2026-03-05T19:30:00","status":"PENDING"}`)
	}))
	defer server.Close()

	req := reservation.Request{
		TableNumber:     5,
		Guests:          3,
		At:              time.Date(2026, 3, 5, 19, 30, 0, 0, time.UTC),
		SpecialRequests: "window seat",
	}
	got, err := newTestClient(server).CreateReservation(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if got.ID != "10" || got.Status != reservation.StatusPending {
		t.Errorf("reservation = %+v", got)
	}
}

func TestRequestReservationCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/reservations/10/request-cancellation" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `{"id":10,"status":"CANCELLATION_REQUESTED"}`)
	}))
	defer server.Close()

	got, err := newTestClient(server).RequestReservationCancellation(context.Background(), "10")
	if err != nil {
		t.Fatalf("RequestReservationCancellation() error = %v", err)
	}
	if got.CanRequestCancellation() {
		t.Errorf("status = %s, should not allow another request", got.Status)
	}
}

func TestRequestReservationUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/reservations/request-update" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["reservationId"] != float64(10) || body["requestType"] != "UPDATE" {
			t.Errorf("body = %v", body)
		}
		if body["numberOfGuests"] != float64(4) {
			t.Errorf("numberOfGuests = %v", body["numberOfGuests"])
		}
		writeJSON(w, http.StatusOK, `{"id":10,"tableNumber":5,"numberOfGuests":4,"status":"PENDING"}`)
	}))
	defer server.Close()

	req := reservation.Request{TableNumber: 5, Guests: 4, At: time.Date(2026, 3, 5, 19, 30, 0, 0, time.UTC)}
	got, err := newTestClient(server).RequestReservationUpdate(context.Background(), "10", req)
	if err != nil {
		t.Fatalf("RequestReservationUpdate() error = %v", err)
	}
	if got.ID != "10" || got.Guests != 4 {
		t.Errorf("reservation = %+v", got)
	}
}

func TestCreateReservationOmitsUpdateFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, ok := body["reservationId"]; ok {
			t.Errorf("reservationId sent on create: %v", body)
		}
		if _, ok := body["requestType"]; ok {
			t.Errorf("requestType sent on create: %v", body)
		}
		writeJSON(w, http.StatusCreated, `{"id":1}`)
	}))
	defer server.Close()

	if _, err := newTestClient(server).CreateReservation(context.Background(), reservation.Request{TableNumber: 1, Guests: 2}); err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
}
