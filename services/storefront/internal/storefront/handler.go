package storefront

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	aqmtemplate "github.com/aquamarinepk/aqm/template"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/storefront/services/storefront/internal/catalog"
	"github.com/appetiteclub/storefront/services/storefront/internal/checkout"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/metrics"
	"github.com/appetiteclub/storefront/services/storefront/internal/mongo"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

// Backend is the subset of the REST backend the storefront uses.
type Backend interface {
	catalog.Fetcher
	checkout.Submitter
	SignIn(ctx context.Context, username, password string) (string, identity.Identity, error)
	SignUp(ctx context.Context, name, email, password string) (string, identity.Identity, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
	ListOrders(ctx context.Context) ([]order.Record, error)
	CancelOrder(ctx context.Context, orderID, reason string) (order.Record, error)
	ListReservations(ctx context.Context) ([]reservation.Reservation, error)
	CreateReservation(ctx context.Context, req reservation.Request) (reservation.Reservation, error)
	RequestReservationCancellation(ctx context.Context, id string) (reservation.Reservation, error)
	RequestReservationUpdate(ctx context.Context, id string, req reservation.Request) (reservation.Reservation, error)
	LoyaltyDashboard(ctx context.Context) (loyalty.Program, error)
	SubscribeLoyalty(ctx context.Context, planID string) (loyalty.Program, error)
	ToggleLoyaltyAutoRenew(ctx context.Context) error
	CancelLoyalty(ctx context.Context) error
	Profile(ctx context.Context) (profile.Profile, error)
	UpdateProfile(ctx context.Context, u profile.Update) (profile.Profile, error)
	ChangePassword(ctx context.Context, current, next string) error
	DeleteAccount(ctx context.Context) error
}

// ReceiptStore keeps the storefront's own copy of placed orders.
type ReceiptStore interface {
	checkout.Observer
	ListByCustomer(ctx context.Context, customerID string, limit int64) ([]mongo.Receipt, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// Publisher sends raw messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// Renderer executes a page template inside a layout.
type Renderer interface {
	Render(w io.Writer, page, layout string, data map[string]interface{}) error
}

type templateRenderer struct {
	mgr *aqmtemplate.Manager
}

// NewTemplateRenderer adapts the aqm template manager.
func NewTemplateRenderer(mgr *aqmtemplate.Manager) Renderer {
	return templateRenderer{mgr: mgr}
}

func (r templateRenderer) Render(w io.Writer, page, layout string, data map[string]interface{}) error {
	tmpl, err := r.mgr.Get(page)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, layout, data)
}

type HandlerDeps struct {
	Renderer       Renderer
	Backend        Backend
	Gate           *identity.Gate
	Sessions       *SessionStore
	Metrics        *metrics.Storefront
	MetricsHandler http.Handler
	Publisher      Publisher
	Receipts       ReceiptStore
	Static         fs.FS
}

type Handler struct {
	renderer        Renderer
	backend         Backend
	gate            *identity.Gate
	sessions        *SessionStore
	metrics         *metrics.Storefront
	metricsHandler  http.Handler
	static          fs.FS
	notifier        *OrderNotifier
	receipts        ReceiptStore
	audit           *AuditLogger
	events          *EventsHandler
	config          *aqm.Config
	logger          aqm.Logger
	http            *telemetry.HTTP
	sessionName     string
	secureCookie    bool
	locations       []string
	defaultLocation string
	plans           []loyalty.Plan
	now             func() time.Time
}

func NewHandler(deps HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if config == nil {
		config = aqm.NewConfig()
	}

	sessionName, _ := config.GetString("auth.session.name")
	if sessionName == "" {
		sessionName = "storefront_session"
	}

	secureCookie, _ := config.GetString("auth.session.secure")

	sessions := deps.Sessions
	if sessions == nil {
		sessionTTL := 8 * time.Hour
		if raw, ok := config.GetString("auth.session.ttl"); ok && raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				sessionTTL = parsed
			} else {
				logger.Info("invalid auth.session.ttl value", "value", raw, "error", err)
			}
		}
		sessions = NewSessionStore(sessionTTL)
	}
	if deps.Metrics != nil {
		sessions.OnEvict(deps.Metrics.SessionsClosed)
	}

	gate := deps.Gate
	if gate == nil {
		gate = identity.NewGate(nil, logger)
	}

	locations := menu.Locations
	if raw, ok := config.GetString("catalog.locations"); ok && raw != "" {
		locations = splitList(raw)
	}
	defaultLocation, _ := config.GetString("catalog.default_location")
	defaultLocation = menu.NormalizeLocation(defaultLocation)

	audit := NewAuditLogger(logger)
	plansRaw, _ := config.GetString("loyalty.plans")

	h := &Handler{
		renderer:        deps.Renderer,
		backend:         deps.Backend,
		gate:            gate,
		sessions:        sessions,
		metrics:         deps.Metrics,
		metricsHandler:  deps.MetricsHandler,
		static:          deps.Static,
		receipts:        deps.Receipts,
		audit:           audit,
		config:          config,
		logger:          logger,
		http:            telemetry.NewHTTP(),
		sessionName:     sessionName,
		secureCookie:    secureCookie == "true",
		locations:       locations,
		defaultLocation: defaultLocation,
		plans:           parsePlans(plansRaw),
		now:             time.Now,
	}

	if deps.Publisher != nil {
		h.notifier = NewOrderNotifier(deps.Publisher, logger)
	}
	h.events = NewEventsHandler(h, logger)

	return h
}

// RegisterRoutes wires the storefront routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	if h.metricsHandler != nil {
		r.Handle("/metrics", h.metricsHandler)
	}
	if h.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/signin", h.ShowSignIn)
		r.Post("/signin", h.HandleSignIn)
		r.Post("/signout", h.HandleSignOut)
		r.Get("/signup", h.ShowSignUp)
		r.Post("/signup", h.HandleSignUp)
		r.Get("/forgot-password", h.ShowForgotPassword)
		r.Post("/forgot-password", h.HandleForgotPassword)
		r.Get("/reset-password/{token}", h.ShowResetPassword)
		r.Post("/reset-password/{token}", h.HandleResetPassword)

		r.Get("/", h.Home)
		r.Get("/menu", h.Menu)
		r.Post("/cart/items", h.AddToCart)
		r.Post("/cart/lines/{id}/increment", h.IncrementLine)
		r.Post("/cart/lines/{id}/decrement", h.DecrementLine)
		r.Post("/cart/clear", h.ClearCart)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders", h.Orders)
		r.Post("/orders/{id}/cancel", h.CancelOrder)
		r.Get("/reservations", h.Reservations)
		r.Post("/reservations", h.CreateReservation)
		r.Post("/reservations/{id}/cancel", h.CancelReservation)
		r.Post("/reservations/{id}/update-request", h.RequestReservationUpdate)
		r.Get("/loyalty", h.Loyalty)
		r.Post("/loyalty/subscribe", h.SubscribeLoyalty)
		r.Post("/loyalty/auto-renew", h.ToggleAutoRenew)
		r.Post("/loyalty/cancel", h.CancelLoyalty)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/profile", h.Profile)
		r.Post("/profile", h.UpdateProfile)
		r.Post("/profile/password", h.ChangePassword)
		r.Post("/profile/delete", h.DeleteAccount)
		r.Get("/admin", h.Admin)
		r.Get("/events", h.events.ServeHTTP)
	})
}

func (h *Handler) log() aqm.Logger {
	return h.logger
}

func (h *Handler) renderTemplate(w http.ResponseWriter, templateName, layout string, data map[string]interface{}) {
	h.renderTemplateStatus(w, http.StatusOK, templateName, layout, data)
}

// renderTemplateStatus buffers the output so a template error never leaves
// a half-written page behind.
func (h *Handler) renderTemplateStatus(w http.ResponseWriter, status int, templateName, layout string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, templateName, layout, data); err != nil {
		h.log().Error("error rendering template", "error", err, "template", templateName, "layout", layout)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, menu.NormalizeLocation(part))
		}
	}
	return out
}

// parsePlans reads "id:name" pairs, e.g. "1:Silver,2:Gold".
func parsePlans(raw string) []loyalty.Plan {
	if raw == "" {
		return loyalty.DefaultPlans
	}

	var plans []loyalty.Plan
	for _, part := range strings.Split(raw, ",") {
		id, name, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found || id == "" {
			continue
		}
		plans = append(plans, loyalty.Plan{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	if len(plans) == 0 {
		return loyalty.DefaultPlans
	}
	return plans
}
