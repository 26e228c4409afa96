package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/loyalty"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/profile"
	"github.com/appetiteclub/storefront/services/storefront/internal/reservation"
)

const (
	// orderDateLayout matches the backend's LocalDateTime text.
	orderDateLayout = "2006-01-02 15:04:05"
	// reservationDateLayout is the ISO local form the reservation API takes.
	reservationDateLayout = "2006-01-02T15:04:05"
)

// flexID accepts ids sent either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers.
func (f flexID) MarshalJSON() ([]byte, error) {
	s := string(f)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

type menuGroupRecord struct {
	MenuID flexID `json:"menuId"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type menuItemRecord struct {
	ItemID      flexID           `json:"itemId" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,money"`
	Seasonal    bool             `json:"seasonal"`
	Category    string           `json:"category"`
	Menu        *menuGroupRecord `json:"menu"`
}

func (r menuItemRecord) toItem() menu.Item {
	category := r.Category
	if r.Menu != nil && r.Menu.Name != "" {
		category = r.Menu.Name
	}
	if category == "" {
		category = menu.DefaultCategory
	}

	return menu.Item{
		ID:          string(r.ItemID),
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    category,
		Seasonal:    r.Seasonal,
	}
}

type orderItemPayload struct {
	ItemID   flexID  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderPayload struct {
	Items           []orderItemPayload `json:"items"`
	CustomerName    string             `json:"customerName"`
	OrderStatus     string             `json:"orderStatus"`
	OrderFullFilled bool               `json:"orderFullFilled"`
	TotalAmount     float64            `json:"totalAmount"`
	OrderDateTime   string             `json:"orderDateTime"`
	Note            string             `json:"note,omitempty"`
}

func newOrderPayload(req order.Request) orderPayload {
	items := make([]orderItemPayload, 0, len(req.Items))
	for _, l := range req.Items {
		items = append(items, orderItemPayload{
			ItemID:   flexID(l.ItemID),
			Quantity: l.Quantity,
			Price:    l.Price.InexactFloat64(),
		})
	}

	return orderPayload{
		Items:           items,
		CustomerName:    req.CustomerName,
		OrderStatus:     order.StatusPending,
		OrderFullFilled: false,
		TotalAmount:     req.TotalAmount.InexactFloat64(),
		OrderDateTime:   req.PlacedAt.UTC().Format(orderDateLayout),
		Note:            req.Note,
	}
}

type orderResultRecord struct {
	OrderID     flexID `json:"orderId" validate:"required"`
	OrderStatus string `json:"orderStatus"`
	Status      string `json:"status"`
}

func (r orderResultRecord) toResult() order.Result {
	status := r.OrderStatus
	if status == "" {
		status = r.Status
	}
	if status == "" {
		status = order.StatusPending
	}
	return order.Result{OrderID: string(r.OrderID), Status: status}
}

type orderLineRecord struct {
	ItemID   flexID           `json:"itemId"`
	Name     string           `json:"name"`
	Quantity int              `json:"quantity" validate:"gte=0"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,money"`
}

type orderRecord struct {
	OrderID         flexID            `json:"orderId" validate:"required"`
	OrderStatus     string            `json:"orderStatus"`
	Status          string            `json:"status"`
	TotalAmount     *decimal.Decimal  `json:"totalAmount" validate:"omitempty,money"`
	OrderDateTime   string            `json:"orderDateTime"`
	CreatedAt       string            `json:"createdAt"`
	OrderFullFilled bool              `json:"orderFullFilled"`
	Note            string            `json:"note"`
	Items           []orderLineRecord `json:"items" validate:"dive"`
}

func (r orderRecord) toRecord() order.Record {
	rec := order.Record{
		ID:          string(r.OrderID),
		Status:      r.OrderStatus,
		TotalAmount: decimal.Zero,
		Note:        r.Note,
		Fulfilled:   r.OrderFullFilled,
	}
	if rec.Status == "" {
		rec.Status = r.Status
	}
	if r.TotalAmount != nil {
		rec.TotalAmount = *r.TotalAmount
	}
	rec.PlacedAt = parseOrderTime(r.OrderDateTime, r.CreatedAt)

	for _, l := range r.Items {
		line := order.Line{ItemID: string(l.ItemID), Name: l.Name, Quantity: l.Quantity, Price: decimal.Zero}
		if l.Price != nil {
			line.Price = *l.Price
		}
		rec.Items = append(rec.Items, line)
	}
	return rec
}

func parseOrderTime(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		for _, layout := range []string{orderDateLayout, reservationDateLayout, "2006-01-02T15:04", time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

type userRecord struct {
	CustomerID flexID   `json:"customerId"`
	ID         flexID   `json:"id"`
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Role       string   `json:"role"`
	Roles      []string `json:"roles"`
}

func (r userRecord) toIdentity() identity.Identity {
	id := identity.Identity{
		CustomerID: string(r.CustomerID),
		Name:       r.Name,
		Email:      r.Email,
	}
	if id.CustomerID == "" {
		id.CustomerID = string(r.ID)
	}
	if id.Name == "" {
		id.Name = r.Username
	}
	if r.Role != "" {
		id.Roles = append(id.Roles, strings.ToUpper(r.Role))
	}
	for _, role := range r.Roles {
		id.Roles = append(id.Roles, strings.ToUpper(role))
	}
	return id
}

type signInRecord struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"accessToken"`
	User        *userRecord `json:"user"`
}

type signUpPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type notificationRecord struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type preferencesRecord struct {
	DietaryRestrictions     []string            `json:"dietaryRestrictions,omitempty"`
	FavoriteItems           []flexID            `json:"favoriteItems,omitempty"`
	NotificationPreferences *notificationRecord `json:"notificationPreferences,omitempty"`
}

type profileRecord struct {
	CustomerID  flexID             `json:"customerId"`
	Name        string             `json:"name"`
	Email       string             `json:"email" validate:"omitempty,email"`
	PhoneNumber string             `json:"phoneNumber"`
	Address     string             `json:"address"`
	Preferences *preferencesRecord `json:"preferences"`
}

func (r profileRecord) toProfile() profile.Profile {
	p := profile.Profile{
		CustomerID: string(r.CustomerID),
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.PhoneNumber,
		Address:    r.Address,
	}
	if prefs := r.Preferences; prefs != nil {
		p.Dietary = append([]string(nil), prefs.DietaryRestrictions...)
		for _, id := range prefs.FavoriteItems {
			p.FavoriteItems = append(p.FavoriteItems, string(id))
		}
		if n := prefs.NotificationPreferences; n != nil {
			p.NotifyEmail = n.Email
			p.NotifySMS = n.SMS
		}
	}
	return p
}

type profilePayload struct {
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Address     string            `json:"address,omitempty"`
	Preferences preferencesRecord `json:"preferences"`
}

func newProfilePayload(u profile.Update) profilePayload {
	return profilePayload{
		Name:        u.Name,
		PhoneNumber: u.Phone,
		Address:     u.Address,
		Preferences: preferencesRecord{
			DietaryRestrictions:     u.Dietary,
			NotificationPreferences: &notificationRecord{Email: u.NotifyEmail, SMS: u.NotifySMS},
		},
	}
}

type resetPasswordPayload struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type reservationPayload struct {
	ReservationID       flexID `json:"reservationId,omitempty"`
	RequestType         string `json:"requestType,omitempty"`
	TableNumber         int    `json:"tableNumber"`
	NumberOfGuests      int    `json:"numberOfGuests"`
	ReservationDateTime string `json:"reservationDateTime"`
	SpecialRequests     string `json:"specialRequests,omitempty"`
}

func newReservationPayload(req reservation.Request) reservationPayload {
	return reservationPayload{
		TableNumber:         req.TableNumber,
		NumberOfGuests:      req.Guests,
		ReservationDateTime: req.At.Format(reservationDateLayout),
		SpecialRequests:     req.SpecialRequests,
	}
}

type reservationRecord struct {
	ID                  flexID `json:"id" validate:"required"`
	TableNumber         int    `json:"tableNumber" validate:"gte=0"`
	NumberOfGuests      int    `json:"numberOfGuests" validate:"gte=0"`
	ReservationDateTime string `json:"reservationDateTime"`
	Status              string `json:"status"`
	SpecialRequests     string `json:"specialRequests"`
	CustomerID          flexID `json:"customerId"`
	CustomerName        string `json:"customerName"`
}

func (r reservationRecord) toReservation() reservation.Reservation {
	status := strings.ToUpper(r.Status)
	if status == "" {
		status = reservation.StatusPending
	}
	return reservation.Reservation{
		ID:              string(r.ID),
		TableNumber:     r.TableNumber,
		Guests:          r.NumberOfGuests,
		At:              parseOrderTime(r.ReservationDateTime),
		Status:          status,
		SpecialRequests: r.SpecialRequests,
		CustomerID:      string(r.CustomerID),
		CustomerName:    r.CustomerName,
	}
}

type loyaltyRecord struct {
	ID         flexID   `json:"id"`
	CustomerID flexID   `json:"customerId"`
	Points     int      `json:"points" validate:"gte=0"`
	Tier       string   `json:"tier"`
	Benefits   []string `json:"benefits"`
	AutoRenew  bool     `json:"autoRenew"`
	ExpiryDate string   `json:"expiryDate"`
}

func (r loyaltyRecord) toProgram() loyalty.Program {
	return loyalty.Program{
		ID:         string(r.ID),
		CustomerID: string(r.CustomerID),
		Points:     r.Points,
		Tier:       r.Tier,
		Benefits:   append([]string(nil), r.Benefits...),
		AutoRenew:  r.AutoRenew,
		ExpiresAt:  parseOrderTime(r.ExpiryDate),
	}
}

type messageRecord struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return true
			}
			field = field.Elem()
		}
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !d.IsNegative()
	})
	return v
}
