package storefront

import (
	"net/http"
	"net/url"
	"slices"
	"testing"

	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
)

func sampleAccount() profile.Profile {
	return profile.Profile{
		CustomerID:  "c-ana",
		Name:        "ana",
		Email:       "ana@example.com",
		Phone:       "555",
		Dietary:     []string{"vegan"},
		NotifyEmail: true,
	}
}

func TestProfileRequiresSignIn(t *testing.T) {
	s := newTestServer(t, &MockBackend{})

	rec := s.do(t, http.MethodGet, "/profile", nil, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/signin" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestProfileShow(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantView   bool
	}{
		{name: "loaded", wantStatus: http.StatusOK, wantView: true},
		{name: "backendDown", err: &backend.APIError{Status: http.StatusInternalServerError}, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &MockBackend{Account: sampleAccount(), ProfileErr: tt.err})
			signInAs(t, s)

			rec := s.do(t, http.MethodGet, "/profile", nil, false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			last := s.renderer.Last()
			view, ok := last.Data["Profile"].(profileView)
			if ok != tt.wantView {
				t.Fatalf("Profile view present = %v, want %v", ok, tt.wantView)
			}
			if !tt.wantView {
				if last.Data["ProfileError"] != msgProfileFailed {
					t.Errorf("ProfileError = %v", last.Data["ProfileError"])
				}
				return
			}
			if view.Email != "ana@example.com" || view.Dietary != "vegan" || !view.NotifyEmail || view.NotifySMS {
				t.Errorf("view = %+v", view)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Run("savesAndRenamesSession", func(t *testing.T) {
		be := &MockBackend{Account: sampleAccount()}
		s := newTestServer(t, be)
		signInAs(t, s)

		form := url.Values{
			"name":       {"Ana Lopez"},
			"phone":      {"777"},
			"dietary":    {"vegan, nut-free"},
			"notify_sms": {"on"},
		}
		rec := s.do(t, http.MethodPost, "/profile", form, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		last := s.renderer.Last()
		if last.Data["Notice"] != msgProfileSaved {
			t.Errorf("Notice = %v", last.Data["Notice"])
		}
		view := last.Data["Profile"].(profileView)
		if view.Name != "Ana Lopez" || view.Dietary != "vegan, nut-free" || view.NotifyEmail || !view.NotifySMS {
			t.Errorf("view = %+v", view)
		}

		id, ok := s.session(t).Store.Snapshot().Auth.Principal.Identity()
		if !ok || id.Name != "Ana Lopez" {
			t.Errorf("session identity = %+v", id)
		}
		if last.Data["User"] != "Ana Lopez" {
			t.Errorf("User = %v", last.Data["User"])
		}
	})

	t.Run("blankName", func(t *testing.T) {
		be := &MockBackend{Account: sampleAccount()}
		s := newTestServer(t, be)
		signInAs(t, s)

		rec := s.do(t, http.MethodPost, "/profile", url.Values{"name": {"  "}}, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(be.AccountCalls()) != 0 {
			t.Errorf("backend calls = %v, want none", be.AccountCalls())
		}
	})
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		err        error
		wantStatus int
		wantCall   bool
		wantError  string
	}{
		{
			name:       "changed",
			form:       url.Values{"current_password": {"old-secret"}, "new_password": {"new-secret"}, "confirm_password": {"new-secret"}},
			wantStatus: http.StatusOK,
			wantCall:   true,
		},
		{
			name:       "mismatch",
			form:       url.Values{"current_password": {"old-secret"}, "new_password": {"new-secret"}, "confirm_password": {"other"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Passwords do not match",
		},
		{
			name:       "wrongCurrent",
			form:       url.Values{"current_password": {"bad"}, "new_password": {"new-secret"}, "confirm_password": {"new-secret"}},
			err:        &backend.APIError{Status: http.StatusBadRequest, Message: "Current password is incorrect"},
			wantStatus: http.StatusBadRequest,
			wantCall:   true,
			wantError:  "Current password is incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := &MockBackend{Account: sampleAccount(), PasswordErr: tt.err}
			s := newTestServer(t, be)
			signInAs(t, s)

			rec := s.do(t, http.MethodPost, "/profile/password", tt.form, true)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := slices.Contains(be.AccountCalls(), "password"); got != tt.wantCall {
				t.Errorf("backend called = %v, want %v", got, tt.wantCall)
			}

			last := s.renderer.Last()
			if tt.wantError != "" && last.Data["PasswordError"] != tt.wantError {
				t.Errorf("PasswordError = %v, want %q", last.Data["PasswordError"], tt.wantError)
			}
			if tt.wantError == "" && last.Data["Notice"] != msgPasswordSaved {
				t.Errorf("Notice = %v", last.Data["Notice"])
			}
			if _, ok := last.Data["Profile"].(profileView); !ok {
				t.Error("profile form should still be shown")
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Run("requiresConfirmation", func(t *testing.T) {
		be := &MockBackend{Account: sampleAccount()}
		s := newTestServer(t, be)
		signInAs(t, s)

		rec := s.do(t, http.MethodPost, "/profile/delete", url.Values{}, false)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(be.AccountCalls()) != 0 {
			t.Errorf("backend calls = %v, want none", be.AccountCalls())
		}
	})

	t.Run("deletesAndSignsOut", func(t *testing.T) {
		be := &MockBackend{Account: sampleAccount()}
		s := newTestServer(t, be)
		signInAs(t, s)

		rec := s.do(t, http.MethodPost, "/profile/delete", url.Values{"confirm": {"yes"}}, false)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/menu" {
			t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
		}
		if !slices.Equal(be.AccountCalls(), []string{"delete"}) {
			t.Errorf("backend calls = %v", be.AccountCalls())
		}
		if s.session(t).Store.Snapshot().Auth.Principal.IsAuthenticated() {
			t.Error("session should be signed out")
		}
	})
}
