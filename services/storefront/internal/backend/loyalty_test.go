package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoyaltyDashboard(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantNotFound bool
	}{
		{
			name:   "member",
			status: http.StatusOK,
			body:   `{"id":1,"customerId":7,"points":120,"tier":"GOLD","benefits":["free dessert"],"autoRenew":true,"expiryDate":"2026-12-31T00:00:00"}`,
		},
		{name: "notEnrolled", status: http.StatusNotFound, body: `{"message":"No loyalty program"}`, wantErr: true, wantNotFound: true},
		{name: "negativePoints", status: http.StatusOK, body: `{"points":-5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/loyalty/dashboard" {
					t.Errorf("Path = %s", r.URL.Path)
				}
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			p, err := newTestClient(server).LoyaltyDashboard(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoyaltyDashboard() error = %v, wantErr %v", err, tt.wantErr)
			}
			if IsNotFound(err) != tt.wantNotFound {
				t.Errorf("IsNotFound() = %v, want %v", IsNotFound(err), tt.wantNotFound)
			}
			if tt.wantErr {
				return
			}
			if p.Points != 120 || p.Tier != "GOLD" || !p.AutoRenew || len(p.Benefits) != 1 {
				t.Errorf("program = %+v", p)
			}
			if p.ExpiresAt.Year() != 2026 {
				t.Errorf("ExpiresAt = %v", p.ExpiresAt)
			}
		})
	}
}

func TestLoyaltyCommands(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusOK, `{"id":1,"points":0,"tier":"SILVER"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server)
	ctx := context.Background()

	p, err := client.SubscribeLoyalty(ctx, "2")
	if err != nil || p.Tier != "SILVER" {
		t.Fatalf("SubscribeLoyalty() = %+v, %v", p, err)
	}
	if err := client.ToggleLoyaltyAutoRenew(ctx); err != nil {
		t.Fatalf("ToggleLoyaltyAutoRenew() error = %v", err)
	}
	if err := client.CancelLoyalty(ctx); err != nil {
		t.Fatalf("CancelLoyalty() error = %v", err)
	}

	want := []string{"POST /loyalty/subscribe/2", "PUT /loyalty/auto-renew", "DELETE /loyalty/subscription"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, calls[i], want[i])
		}
	}
}
