package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/order"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

// User-facing messages.
const (
	MsgSignInRequired = "Please login to place an order"
	MsgEmptyCart      = "Your cart is empty. Please add items before placing an order."
	MsgDefaultFailure = "Failed to place order. Please try again."
)

var (
	ErrNotAuthenticated = errors.New("checkout: not authenticated")
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrInFlight         = errors.New("checkout: submission in flight")
)

// SuccessMessage is the notice shown after an order is accepted.
func SuccessMessage(orderID string) string {
	return fmt.Sprintf("Order placed successfully! Order #%s", orderID)
}

// Submitter sends an order to the backend.
type Submitter interface {
	SubmitOrder(ctx context.Context, req order.Request) (order.Result, error)
}

// Observer is told about every accepted order. Observers run after the
// state is committed; their failures never affect the submission.
type Observer interface {
	OrderPlaced(ctx context.Context, req order.Request, res order.Result) error
}

// Recorder observes submission outcomes.
type Recorder interface {
	Submission(outcome string, elapsed time.Duration)
}

// Flow drives a single session's order submission:
// idle -> submitting -> succeeded | failed -> idle.
type Flow struct {
	store     *state.Store
	submitter Submitter
	observers []Observer
	recorder  Recorder
	logger    aqm.Logger
	inFlight  atomic.Bool
	now       func() time.Time
	newID     func() string
}

type Option func(*Flow)

func WithObservers(observers ...Observer) Option {
	return func(f *Flow) {
		f.observers = append(f.observers, observers...)
	}
}

func WithRecorder(r Recorder) Option {
	return func(f *Flow) {
		f.recorder = r
	}
}

// WithClock overrides the time source used for order timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		f.now = now
	}
}

// WithCorrelation overrides the correlation id generator.
func WithCorrelation(newID func() string) Option {
	return func(f *Flow) {
		f.newID = newID
	}
}

func NewFlow(store *state.Store, submitter Submitter, logger aqm.Logger, opts ...Option) *Flow {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	f := &Flow{
		store:     store,
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submitting reports whether a submission is in flight.
func (f *Flow) Submitting() bool {
	return f.inFlight.Load()
}

// Submit places an order for the current cart. Guards run before any
// network call. While a submission is in flight further calls return
// ErrInFlight and change nothing.
func (f *Flow) Submit(ctx context.Context, note string) (order.Result, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		f.record("in_flight", 0)
		return order.Result{}, ErrInFlight
	}
	defer f.inFlight.Store(false)

	snap := f.store.Snapshot()

	id, ok := snap.Auth.Principal.Identity()
	if !ok {
		f.store.Dispatch(state.SubmissionRejected{Message: MsgSignInRequired})
		f.record("rejected", 0)
		return order.Result{}, ErrNotAuthenticated
	}

	if snap.Cart.IsEmpty() {
		f.store.Dispatch(state.SubmissionRejected{Message: MsgEmptyCart})
		f.record("rejected", 0)
		return order.Result{}, ErrEmptyCart
	}

	req := order.FromCart(snap.Cart, id.CustomerID, id.DisplayName(), f.newID(), f.now(), note)

	f.store.Dispatch(state.SubmissionStarted{Correlation: req.Correlation})
	f.logger.Info("submitting order", "correlation", req.Correlation, "items", req.ItemCount(), "total", req.TotalAmount.StringFixed(2))

	start := time.Now()
	ctx = identity.WithToken(ctx, snap.Auth.Principal.Token())
	res, err := f.submitter.SubmitOrder(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		msg := apperror.UserMessage(err, MsgDefaultFailure)
		f.store.Dispatch(state.SubmissionFailed{Message: msg})
		f.store.Dispatch(state.SubmissionSettled{})
		f.record("failed", elapsed)
		f.logger.Info("order submission failed", "correlation", req.Correlation, "error", err)
		return order.Result{}, fmt.Errorf("submit order: %w", err)
	}

	f.store.Dispatch(state.SubmissionSucceeded{Result: res, Message: SuccessMessage(res.OrderID)})
	f.store.Dispatch(state.SubmissionSettled{})
	f.record("success", elapsed)
	f.logger.Info("order placed", "correlation", req.Correlation, "order_id", res.OrderID)

	for _, o := range f.observers {
		if err := o.OrderPlaced(ctx, req, res); err != nil {
			f.logger.Error("order observer failed", "order_id", res.OrderID, "error", err)
		}
	}

	return res, nil
}

func (f *Flow) record(outcome string, elapsed time.Duration) {
	if f.recorder != nil {
		f.recorder.Submission(outcome, elapsed)
	}
}
