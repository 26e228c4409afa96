package storefront

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

type itemView struct {
	ID          string
	Name        string
	Description string
	Price       string
	Seasonal    bool
}

type categoryView struct {
	Name  string
	Items []itemView
}

type lineView struct {
	ID       string
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

type cartView struct {
	Lines      []lineView
	ItemCount  int
	Total      string
	Empty      bool
	Submitting bool
	Notice     state.Notice
}

type orderView struct {
	ID          string
	Status      string
	StatusClass string
	Total       string
	PlacedAt    string
	Items       []lineView
	Note        string
	Cancellable bool
}

type reservationView struct {
	ID              string
	Table           int
	Guests          int
	At              string
	Status          string
	StatusClass     string
	SpecialRequests string
	Cancellable     bool
}

// reservationForm echoes a rejected booking back into the form.
type reservationForm struct {
	TableNumber     string
	Guests          string
	DateTime        string
	SpecialRequests string
}

type programView struct {
	Tier      string
	Points    int
	Benefits  []string
	AutoRenew bool
	ExpiresAt string
	Active    bool
}

type profileView struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Dietary     string
	NotifyEmail bool
	NotifySMS   bool
}

func newProfileView(p profile.Profile) profileView {
	return profileView{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		Dietary:     strings.Join(p.Dietary, ", "),
		NotifyEmail: p.NotifyEmail,
		NotifySMS:   p.NotifySMS,
	}
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func newCartView(c cart.Cart, checkout state.CheckoutState) cartView {
	totals := c.Totals()
	view := cartView{
		ItemCount:  totals.ItemCount,
		Total:      formatMoney(totals.Amount),
		Empty:      c.IsEmpty(),
		Submitting: checkout.Phase == state.PhaseSubmitting,
		Notice:     checkout.Notice,
	}
	for _, l := range c.Lines() {
		view.Lines = append(view.Lines, lineView{
			ID:       l.ID,
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Price:    formatMoney(l.Item.Price),
			Subtotal: formatMoney(l.Subtotal()),
		})
	}
	return view
}

func newCategoryViews(items []menu.Item) []categoryView {
	groups := menu.GroupByCategory(items)
	views := make([]categoryView, 0, len(groups))
	for _, g := range groups {
		cv := categoryView{Name: g.Category}
		for _, item := range g.Items {
			cv.Items = append(cv.Items, itemView{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       formatMoney(item.Price),
				Seasonal:    item.Seasonal,
			})
		}
		views = append(views, cv)
	}
	return views
}

func newOrderView(rec order.Record) orderView {
	view := orderView{
		ID:          rec.ID,
		Status:      rec.Status,
		StatusClass: statusClass(rec.Status),
		Total:       formatMoney(rec.TotalAmount),
		Note:        rec.Note,
		Cancellable: rec.Cancellable(),
	}
	if !rec.PlacedAt.IsZero() {
		view.PlacedAt = rec.PlacedAt.Format("Jan 2, 2006 3:04 PM")
	}
	for _, l := range rec.Items {
		view.Items = append(view.Items, lineView{
			ID:       l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    formatMoney(l.Price),
			Subtotal: formatMoney(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		})
	}
	return view
}

func newReservationView(res reservation.Reservation) reservationView {
	view := reservationView{
		ID:              res.ID,
		Table:           res.TableNumber,
		Guests:          res.Guests,
		Status:          res.Status,
		StatusClass:     reservationStatusClass(res.Status),
		SpecialRequests: res.SpecialRequests,
		Cancellable:     res.CanRequestCancellation(),
	}
	if !res.At.IsZero() {
		view.At = res.At.Format("Jan 2, 2006 3:04 PM")
	}
	return view
}

func reservationStatusClass(status string) string {
	switch status {
	case reservation.StatusPending, reservation.StatusCancellationRequested:
		return "status-pending"
	case reservation.StatusConfirmed:
		return "status-active"
	case reservation.StatusCompleted:
		return "status-done"
	case reservation.StatusCancelled:
		return "status-cancelled"
	default:
		return "status-unknown"
	}
}

func newReservationForm(form map[string][]string) reservationForm {
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	f := reservationForm{
		TableNumber:     get("table_number"),
		Guests:          get("guests"),
		DateTime:        get("date_time"),
		SpecialRequests: get("special_requests"),
	}
	if f.TableNumber == "" {
		f.TableNumber = fmt.Sprint(reservation.DefaultTable)
	}
	if f.Guests == "" {
		f.Guests = fmt.Sprint(reservation.DefaultGuests)
	}
	return f
}

func newProgramView(p loyalty.Program, now time.Time) programView {
	view := programView{
		Tier:      titleCase(p.Tier),
		Points:    p.Points,
		Benefits:  p.Benefits,
		AutoRenew: p.AutoRenew,
		Active:    p.Active(now),
	}
	if !p.ExpiresAt.IsZero() {
		view.ExpiresAt = p.ExpiresAt.Format("Jan 2, 2006")
	}
	return view
}

func statusClass(status string) string {
	switch status {
	case order.StatusPending:
		return "status-pending"
	case order.StatusConfirmed, order.StatusPreparing:
		return "status-active"
	case order.StatusReady, order.StatusDelivered:
		return "status-done"
	case order.StatusCancelled:
		return "status-cancelled"
	default:
		return "status-unknown"
	}
}

// titleCase builds a Caser per call; Casers keep state between calls.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// pageData returns the fields every layout needs.
func (h *Handler) pageData(r *http.Request, title string) map[string]interface{} {
	data := map[string]interface{}{
		"Title":     fmt.Sprintf("%s - Storefront", title),
		"SignedIn":  false,
		"IsAdmin":   false,
		"CartCount": 0,
	}

	session := sessionFrom(r.Context())
	if session == nil {
		return data
	}

	snap := session.Store.Snapshot()
	if id, ok := snap.Auth.Principal.Identity(); ok {
		data["SignedIn"] = true
		data["User"] = id.DisplayName()
		data["IsAdmin"] = id.HasRole(identity.RoleAdmin)
	}
	data["CartCount"] = snap.Cart.Totals().ItemCount
	return data
}

// takeNotice returns the pending notice and marks it shown.
func takeNotice(session *Session) state.Notice {
	notice := session.Store.Snapshot().Checkout.Notice
	if !notice.IsZero() {
		session.Store.Dispatch(state.NoticeDismissed{})
	}
	return notice
}

func isHTMX(r *http.Request) bool {
	return aqm.IsHTMX(r)
}
