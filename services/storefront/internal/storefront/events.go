package storefront

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

// EventsHandler streams the session's cart as Server-Sent Events whenever
// its state changes.
type EventsHandler struct {
	handler   *Handler
	logger    aqm.Logger
	keepalive time.Duration
}

func NewEventsHandler(h *Handler, logger aqm.Logger) *EventsHandler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &EventsHandler{handler: h, logger: logger, keepalive: 30 * time.Second}
}

// ServeHTTP implements http.Handler for the SSE endpoint
func (e *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session == nil {
		http.Error(w, "no session", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	e.logger.Info("new SSE connection", "subscriber_id", subscriberID, "session", session.ID)

	// Coalesce bursts: one pending signal is enough, the cart is read fresh.
	changed := make(chan struct{}, 1)
	stream := newCartStream(session.Store.Snapshot().Checkout)
	unsubscribe := session.Store.Subscribe(func(next state.AppState) {
		if !stream.observe(next.Checkout) {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	fmt.Fprintf(w, ": connected\n\n")
	fmt.Fprintf(w, "retry: 2000\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	ticker := time.NewTicker(e.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			e.logger.Info("SSE client disconnected", "subscriber_id", subscriberID)
			return

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}

		case <-changed:
			html, err := e.renderCart(session, stream.notice())
			if err != nil {
				e.logger.Error("failed to render cart", "error", err)
				continue
			}
			sendSSEEvent(w, "cart-update", html)
		}
	}
}

func (e *EventsHandler) renderCart(session *Session, notice state.Notice) (string, error) {
	snap := session.Store.Snapshot()
	view := newCartView(snap.Cart, snap.Checkout)
	view.Notice = notice
	data := map[string]interface{}{
		"Cart": view,
	}

	var buf bytes.Buffer
	if err := e.handler.renderer.Render(&buf, "cart.html", "cart", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cartStream tracks the notice one SSE stream shows. The request that
// takes a notice dismisses it from the store, but the cart fragment pushed
// to the page must keep showing it until something else changes.
type cartStream struct {
	mu      sync.Mutex
	prev    state.CheckoutState
	current state.Notice
}

func newCartStream(initial state.CheckoutState) *cartStream {
	return &cartStream{prev: initial, current: initial.Notice}
}

// observe records the new checkout state and reports whether the cart must
// be pushed. A bare dismissal is not pushed.
func (c *cartStream) observe(next state.CheckoutState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	dismissed := c.prev
	dismissed.Notice = state.Notice{}
	onlyDismissed := !c.prev.Notice.IsZero() && dismissed == next
	c.prev = next

	if onlyDismissed {
		return false
	}
	c.current = next.Notice
	return true
}

func (c *cartStream) notice() state.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// sendSSEEvent sends an SSE event with properly formatted multi-line data
func sendSSEEvent(w http.ResponseWriter, eventType string, data string) {
	data = strings.TrimSpace(data)

	fmt.Fprintf(w, "event: %s\n", eventType)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprintf(w, "\n")

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
