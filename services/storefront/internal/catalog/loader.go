package catalog

import (
	"context"
	"errors"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/services/storefront/internal/apperror"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

// DefaultErrorMessage is shown when the backend gives no reason.
const DefaultErrorMessage = "Failed to load menu. Please try again later."

// ErrSuperseded is returned when a newer request was made while this one
// was in flight. Its outcome was not applied.
var ErrSuperseded = errors.New("catalog request superseded")

// Fetcher retrieves the items of one location.
type Fetcher interface {
	FetchMenu(ctx context.Context, location string) ([]menu.Item, error)
}

// Recorder observes fetch outcomes.
type Recorder interface {
	CatalogFetch(location, outcome string)
}

// Loader fetches catalogs into a session store. The last requested location
// always wins regardless of the order in which responses arrive.
type Loader struct {
	store    *state.Store
	fetcher  Fetcher
	recorder Recorder
	logger   aqm.Logger
}

func NewLoader(store *state.Store, fetcher Fetcher, recorder Recorder, logger aqm.Logger) *Loader {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Loader{
		store:    store,
		fetcher:  fetcher,
		recorder: recorder,
		logger:   logger,
	}
}

// Load requests the catalog for location and commits the outcome unless a
// newer request was issued meanwhile.
func (l *Loader) Load(ctx context.Context, location string) error {
	location = menu.NormalizeLocation(location)

	requested := l.store.Dispatch(state.CatalogRequested{Location: location})
	ticket := requested.Catalog.Ticket

	items, err := l.fetcher.FetchMenu(ctx, location)
	if err != nil {
		msg := apperror.UserMessage(err, DefaultErrorMessage)
		after := l.store.Dispatch(state.CatalogFailed{Ticket: ticket, Message: msg})
		if after.Catalog.Ticket != ticket {
			l.record(location, "stale")
			l.logger.Debug("dropped stale catalog failure", "location", location, "ticket", ticket)
			return ErrSuperseded
		}
		l.record(location, "failed")
		l.logger.Info("catalog fetch failed", "location", location, "error", err)
		return err
	}

	after := l.store.Dispatch(state.CatalogLoaded{Ticket: ticket, Items: items})
	if after.Catalog.Ticket != ticket {
		l.record(location, "stale")
		l.logger.Debug("dropped stale catalog response", "location", location, "ticket", ticket)
		return ErrSuperseded
	}

	l.record(location, "success")
	return nil
}

func (l *Loader) record(location, outcome string) {
	if l.recorder != nil {
		l.recorder.CatalogFetch(location, outcome)
	}
}
