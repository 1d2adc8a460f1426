package port

import (
	"context"

	"github.com/niksmo/web-larek/internal/core/domain"
)

// CatalogSource is the external shop backend the catalog loads from.
// FetchProductByID returns [domain.ErrProductNotFound] for unknown ids.
type CatalogSource interface {
	FetchProducts(context.Context) ([]domain.Product, error)
	FetchProductByID(ctx context.Context, id string) (domain.Product, error)
}

// OrderSink accepts a fully validated order exactly once.
type OrderSink interface {
	SubmitOrder(context.Context, domain.Order) (domain.OrderReceipt, error)
}

// StateViewer exposes read-only session state to inbound adapters.
type StateViewer interface {
	State() domain.AppState
	LineItems() []domain.BasketLine
	Total() int
}

// CatalogLoader triggers the initial catalog fetch.
type CatalogLoader interface {
	LoadCatalog(context.Context) error
}

// SessionEventProducer ships captured bus events to the broker.
type SessionEventProducer interface {
	ProduceEvents(context.Context, []domain.SessionEvent) error
	Close()
}

// SessionEventsSaver persists consumed session events.
type SessionEventsSaver interface {
	SaveEvents(context.Context, []domain.SessionEvent) error
}

// SessionEventsStorage is the saver's database backend.
type SessionEventsStorage interface {
	StoreEvents(context.Context, []domain.SessionEvent) error
}
