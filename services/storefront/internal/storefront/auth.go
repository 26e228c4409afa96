package storefront

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/backend"
	"github.com/appetiteclub/storefront/services/storefront/internal/catalog"
	"github.com/appetiteclub/storefront/services/storefront/internal/checkout"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

const (
	msgSignInFailed   = "Invalid username or password. Please try again."
	msgSignUpFailed   = "Sign up is unavailable right now. Please try again later."
	msgSessionError   = "Session error. Please try again."
	minPasswordLength = 6
)

// SessionMiddleware attaches the browser's session, creating one when
// needed. A known cookie id is reused so a stored credential survives a
// restart of the service.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := h.currentSession(r)
		if session == nil {
			id := ""
			if cookie, err := r.Cookie(h.sessionName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			principal := h.gate.Restore(r.Context(), id)
			session = h.openSession(id, state.Initial(principal))
			h.setSessionCookie(w, session.ID)
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

func (h *Handler) currentSession(r *http.Request) *Session {
	cookie, err := r.Cookie(h.sessionName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := h.sessions.Get(cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// openSession builds the per-session components around a new store.
func (h *Handler) openSession(id string, initial state.AppState) *Session {
	store := state.NewStore(initial, h.logger)

	observers := []checkout.Observer{h.audit}
	if h.notifier != nil {
		observers = append(observers, h.notifier)
	}
	if h.receipts != nil {
		observers = append(observers, h.receipts)
	}

	session := &Session{
		ID:      id,
		Store:   store,
		Catalog: catalog.NewLoader(store, h.backend, h.metrics, h.logger),
		Checkout: checkout.NewFlow(store, h.backend, h.logger,
			checkout.WithObservers(observers...),
			checkout.WithRecorder(h.metrics),
		),
	}

	if err := h.sessions.Save(session); err != nil {
		h.log().Error("failed to save session", "error", err)
	}
	h.metrics.SessionOpened()
	return session
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})
}

// ShowSignIn displays the sign-in page
func (h *Handler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowSignIn")
	defer finish()

	data := h.pageData(r, "Sign In")
	data["Template"] = "signin"
	data["HideNav"] = true
	h.renderTemplate(w, "signin.html", "base.html", data)
}

// HandleSignIn exchanges credentials with the backend and rotates the
// session so the pre-login id cannot be reused.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignIn")
	defer finish()

	renderError := func(status int, message string) {
		data := h.pageData(r, "Sign In")
		data["Template"] = "signin"
		data["HideNav"] = true
		data["Error"] = message
		h.renderTemplateStatus(w, status, "signin.html", "base.html", data)
	}

	if err := r.ParseForm(); err != nil {
		h.log().Debug("failed to parse form", "error", err)
		renderError(http.StatusBadRequest, "Failed to parse form. Please try again.")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		renderError(http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, profile, err := h.backend.SignIn(r.Context(), username, password)
	if err != nil {
		h.metrics.SignIn("failed")
		h.log().Info("sign in failed", "username", username, "error", err)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			renderError(http.StatusUnauthorized, msgSignInFailed)
			return
		}
		renderError(http.StatusBadGateway, apperror.UserMessage(err, "Sign in is unavailable right now. Please try again later."))
		return
	}

	principal, err := h.rotateSession(w, r, token, profile)
	if err != nil {
		h.metrics.SignIn("failed")
		h.log().Error("cannot remember credential", "error", err)
		renderError(http.StatusInternalServerError, msgSessionError)
		return
	}

	h.metrics.SignIn("success")
	h.audit.LogSignIn(r.Context(), principal)

	aqm.RedirectOrHeader(w, r, "/menu")
}

// ShowSignUp displays the registration page.
func (h *Handler) ShowSignUp(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowSignUp")
	defer finish()

	data := h.pageData(r, "Sign Up")
	data["Template"] = "signup"
	data["HideNav"] = true
	h.renderTemplate(w, "signup.html", "base.html", data)
}

// HandleSignUp registers a customer and signs them in on the same session
// rotation as HandleSignIn.
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignUp")
	defer finish()

	var name, email string
	renderError := func(status int, message string) {
		data := h.pageData(r, "Sign Up")
		data["Template"] = "signup"
		data["HideNav"] = true
		data["Error"] = message
		data["Name"] = name
		data["Email"] = email
		h.renderTemplateStatus(w, status, "signup.html", "base.html", data)
	}

	if err := r.ParseForm(); err != nil {
		h.log().Debug("failed to parse form", "error", err)
		renderError(http.StatusBadRequest, "Failed to parse form. Please try again.")
		return
	}

	name = strings.TrimSpace(r.FormValue("name"))
	email = strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if msg := validateSignUp(name, email, password, r.FormValue("confirm_password")); msg != "" {
		renderError(http.StatusBadRequest, msg)
		return
	}

	token, profile, err := h.backend.SignUp(r.Context(), name, email, password)
	if err != nil {
		h.metrics.SignIn("failed")
		h.log().Info("sign up failed", "email", email, "error", err)
		status := http.StatusBadGateway
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			status = apiErr.Status
		}
		renderError(status, apperror.UserMessage(err, msgSignUpFailed))
		return
	}

	principal, err := h.rotateSession(w, r, token, profile)
	if err != nil {
		h.log().Error("cannot remember credential", "error", err)
		renderError(http.StatusInternalServerError, msgSessionError)
		return
	}

	h.metrics.SignIn("success")
	h.audit.LogSignIn(r.Context(), principal)

	aqm.RedirectOrHeader(w, r, "/menu")
}

func validateSignUp(name, email, password, confirm string) string {
	switch {
	case name == "" || email == "" || password == "":
		return "Name, email and password are required."
	case !strings.Contains(email, "@"):
		return "Please enter a valid email address."
	case len(password) < minPasswordLength:
		return "Password must be at least 6 characters."
	case password != confirm:
		return "Passwords do not match."
	}
	return ""
}

// rotateSession stores the credential under a fresh session id and carries
// the old session's state (cart included) over to it. The old id is dropped
// so it cannot be reused.
func (h *Handler) rotateSession(w http.ResponseWriter, r *http.Request, token string, profile identity.Identity) (identity.Principal, error) {
	old := sessionFrom(r.Context())
	id := uuid.NewString()

	principal, err := h.gate.Remember(r.Context(), id, token, profile)
	if err != nil {
		return identity.Anonymous(), err
	}

	initial := state.Initial(principal)
	if old != nil {
		initial = old.Store.Snapshot()
		initial.Auth.Principal = principal
		initial.Checkout.Notice = state.Notice{}
		h.sessions.Delete(old.ID)
		h.forget(r.Context(), old.ID)
	}
	session := h.openSession(id, initial)
	h.setSessionCookie(w, session.ID)
	return principal, nil
}

// HandleSignOut drops the credential but keeps the cart.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignOut")
	defer finish()

	session := sessionFrom(r.Context())
	if session != nil {
		principal := session.Store.Snapshot().Auth.Principal
		h.forget(r.Context(), session.ID)
		session.Store.Dispatch(state.SignedOut{})
		h.audit.LogSignOut(r.Context(), principal)
	}

	aqm.RedirectOrHeader(w, r, "/signin")
}

func (h *Handler) forget(ctx context.Context, id string) {
	if err := h.gate.Forget(ctx, id); err != nil {
		h.log().Error("cannot forget credential", "error", err)
	}
}

// principalFrom returns the live principal of the request's session.
func principalFrom(r *http.Request) identity.Principal {
	if session := sessionFrom(r.Context()); session != nil {
		return session.Store.Snapshot().Auth.Principal
	}
	return identity.Anonymous()
}
