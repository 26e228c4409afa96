package storefront

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/storefront/services/storefront/internal/catalog"
	"github.com/appetiteclub/storefront/services/storefront/internal/checkout"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
)

type locationView struct {
	Value    string
	Label    string
	Selected bool
}

// Home sends visitors to the menu.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

// Menu loads the catalog for the selected location and renders it with
// the cart.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Menu")
	defer finish()

	session := sessionFrom(r.Context())
	location := r.URL.Query().Get("location")
	if strings.TrimSpace(location) == "" {
		current := session.Store.Snapshot().Catalog
		location = current.Location
		if current.Ticket == 0 {
			location = h.defaultLocation
		}
	}

	if err := session.Catalog.Load(r.Context(), location); err != nil && !errors.Is(err, catalog.ErrSuperseded) {
		h.log().Debug("menu load failed", "location", location, "error", err)
	}

	snap := session.Store.Snapshot()
	data := h.pageData(r, "Menu")
	data["Template"] = "menu"
	data["Location"] = snap.Catalog.Location
	data["Locations"] = h.locationViews(snap.Catalog.Location)
	data["Loading"] = snap.Catalog.Loading
	data["MenuError"] = snap.Catalog.Error
	data["Categories"] = newCategoryViews(snap.Catalog.Items)
	data["Cart"] = h.cartViewFor(session)

	if isHTMX(r) && r.Header.Get("HX-Target") == "menu" {
		h.renderTemplate(w, "menu.html", "menu", data)
		return
	}
	h.renderTemplate(w, "menu.html", "base.html", data)
}

// AddToCart appends a line for an item of the loaded catalog.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.AddToCart")
	defer finish()

	session := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	itemID := strings.TrimSpace(r.FormValue("item_id"))
	item, ok := findItem(session.Store.Snapshot().Catalog.Items, itemID)
	if !ok {
		h.log().Debug("item not in catalog", "item_id", itemID)
		http.Error(w, "Item is not on the current menu", http.StatusNotFound)
		return
	}

	session.Store.AddItem(item)
	h.respondCart(w, r, session)
}

func (h *Handler) IncrementLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.IncrementLine")
	defer finish()

	session := sessionFrom(r.Context())
	session.Store.AdjustLine(chi.URLParam(r, "id"), 1)
	h.respondCart(w, r, session)
}

func (h *Handler) DecrementLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DecrementLine")
	defer finish()

	session := sessionFrom(r.Context())
	session.Store.AdjustLine(chi.URLParam(r, "id"), -1)
	h.respondCart(w, r, session)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ClearCart")
	defer finish()

	session := sessionFrom(r.Context())
	session.Store.ClearCart()
	h.respondCart(w, r, session)
}

// Checkout submits the cart. The submission outlives the request so a
// navigation away does not cancel an order already sent.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Checkout")
	defer finish()

	session := sessionFrom(r.Context())
	note := ""
	if err := r.ParseForm(); err == nil {
		note = strings.TrimSpace(r.FormValue("note"))
	}

	_, err := session.Checkout.Submit(context.WithoutCancel(r.Context()), note)
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrInFlight):
		h.log().Debug("checkout already in flight", "session", session.ID)
	case errors.Is(err, checkout.ErrNotAuthenticated), errors.Is(err, checkout.ErrEmptyCart):
	default:
		h.log().Info("checkout failed", "error", err)
	}

	h.respondCart(w, r, session)
}

// respondCart renders the cart fragment for htmx or redirects back to the menu.
func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, session *Session) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Cart": h.cartViewFor(session),
	}
	h.renderTemplate(w, "cart.html", "cart", data)
}

func (h *Handler) cartViewFor(session *Session) cartView {
	notice := takeNotice(session)
	snap := session.Store.Snapshot()
	view := newCartView(snap.Cart, snap.Checkout)
	view.Notice = notice
	return view
}

func (h *Handler) locationViews(selected string) []locationView {
	views := make([]locationView, 0, len(h.locations))
	for _, loc := range h.locations {
		views = append(views, locationView{
			Value:    loc,
			Label:    titleCase(loc),
			Selected: loc == selected,
		})
	}
	return views
}

func findItem(items []menu.Item, id string) (menu.Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return menu.Item{}, false
}
