package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/web-larek/internal/core/checkout"
	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/internal/core/state"
	"github.com/niksmo/web-larek/pkg/bus"
)

var _ port.StateViewer = (*Cart)(nil)
var _ port.CatalogLoader = (*Cart)(nil)

// A Cart orchestrates the session: it subscribes to UI intent events,
// drives the stores and the checkout flow, and talks to the shop
// backend. Collaborator outcomes re-enter the core as flow
// completions, never as partial state.
type Cart struct {
	ctx     context.Context
	bus     *bus.Bus
	store   *state.Store[domain.AppState]
	catalog state.Catalog
	basket  state.Basket
	flow    *checkout.Flow
	source  port.CatalogSource
	sink    port.OrderSink
}

func NewCart(
	ctx context.Context,
	b *bus.Bus,
	store *state.Store[domain.AppState],
	catalog state.Catalog,
	basket state.Basket,
	flow *checkout.Flow,
	source port.CatalogSource,
	sink port.OrderSink,
) *Cart {
	return &Cart{
		ctx:     ctx,
		bus:     b,
		store:   store,
		catalog: catalog,
		basket:  basket,
		flow:    flow,
		source:  source,
		sink:    sink,
	}
}

// Attach registers the intent subscriptions. Call once per session.
func (c *Cart) Attach() {
	c.bus.Subscribe(event.ProductSelected, c.onProductSelected)
	c.bus.Subscribe(event.BasketItemAdded, c.onBasketItemAdded)
	c.bus.Subscribe(event.BasketItemRemoved, c.onBasketItemRemoved)
	c.bus.Subscribe(event.BasketUpdated, c.onBasketUpdated)
	c.bus.Subscribe(event.OrderOpen, c.onOrderOpen)
	c.bus.Subscribe(event.OrderPaymentChange, c.onOrderFieldChange)
	c.bus.Subscribe(event.OrderAddressChange, c.onOrderFieldChange)
	c.bus.Subscribe(event.OrderSubmit, c.onOrderSubmit)
	c.bus.Subscribe(event.ContactsChange, c.onContactsChange)
	c.bus.Subscribe(event.ContactsSubmit, c.onContactsSubmit)
	c.bus.Subscribe(event.ModalClose, c.onModalClose)
}

// LoadCatalog pulls the product list from the catalog source and
// replaces the catalog wholesale. A fetch failure is announced as
// [event.ProductsError] and leaves the previous catalog in place.
func (c *Cart) LoadCatalog(ctx context.Context) error {
	const op = "Cart.LoadCatalog"

	c.catalog.SetLoading(true)
	ps, err := c.source.FetchProducts(ctx)
	if err != nil {
		c.catalog.SetLoading(false)
		c.bus.Publish(
			event.ProductsError,
			event.ErrorPayload{Error: err.Error()},
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	c.catalog.SetProducts(ps)
	return nil
}

func (c *Cart) State() domain.AppState {
	return c.store.Snapshot()
}

func (c *Cart) LineItems() []domain.BasketLine {
	return c.basket.LineItems()
}

func (c *Cart) Total() int {
	return c.basket.Total()
}

func (c *Cart) onProductSelected(p any) {
	const op = "Cart.onProductSelected"

	v, ok := p.(event.ProductPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}

	if _, found := c.catalog.FindByID(v.ProductID); found {
		c.catalog.SetPreview(v.ProductID)
		return
	}

	// Not in the loaded catalog: ask the source before reporting.
	_, err := c.source.FetchProductByID(c.ctx, v.ProductID)
	if err != nil {
		c.bus.Publish(
			event.ProductError,
			event.ErrorPayload{Error: err.Error()},
		)
		return
	}
	slog.Warn("product exists upstream but not in loaded catalog",
		"op", op, "productId", v.ProductID,
	)
}

func (c *Cart) onBasketItemAdded(p any) {
	const op = "Cart.onBasketItemAdded"
	v, ok := p.(event.ProductPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.basket.Add(v.ProductID)
}

func (c *Cart) onBasketItemRemoved(p any) {
	const op = "Cart.onBasketItemRemoved"
	v, ok := p.(event.ProductPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.basket.Remove(v.ProductID)
}

// onBasketUpdated derives the header counter. The nested publish is
// dispatched depth-first before the basket mutation returns.
func (c *Cart) onBasketUpdated(p any) {
	s, ok := p.(domain.AppState)
	if !ok {
		return
	}
	c.bus.Publish(
		event.BasketCounter,
		event.CounterPayload{Count: len(s.Basket)},
	)
}

func (c *Cart) onOrderOpen(any) {
	c.flow.Open()
}

func (c *Cart) onOrderFieldChange(p any) {
	const op = "Cart.onOrderFieldChange"
	v, ok := p.(event.OrderStepPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.flow.SetPayment(domain.PaymentMethod(v.Payment))
	c.flow.SetAddress(v.Address)
}

func (c *Cart) onOrderSubmit(p any) {
	const op = "Cart.onOrderSubmit"
	v, ok := p.(event.OrderStepPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.flow.SetPayment(domain.PaymentMethod(v.Payment))
	c.flow.SetAddress(v.Address)
	c.flow.SubmitOrderStep()
}

func (c *Cart) onContactsChange(p any) {
	const op = "Cart.onContactsChange"
	v, ok := p.(event.ContactsPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.flow.SetEmail(v.Email)
	c.flow.SetPhone(v.Phone)
}

func (c *Cart) onContactsSubmit(p any) {
	const op = "Cart.onContactsSubmit"
	log := slog.With("op", op)

	v, ok := p.(event.ContactsPayload)
	if !ok {
		c.warnPayload(op, p)
		return
	}
	c.flow.SetEmail(v.Email)
	c.flow.SetPhone(v.Phone)

	order, ok := c.flow.SubmitContacts()
	if !ok {
		return
	}

	receipt, err := c.sink.SubmitOrder(c.ctx, order)
	if err != nil {
		log.Error("order submission failed", "err", err)
		c.flow.CompleteFailure(err.Error())
		return
	}

	log.Info("order placed",
		"orderId", receipt.ID, "total", receipt.Total,
	)
	c.flow.CompleteSuccess(order)
}

func (c *Cart) onModalClose(any) {
	c.flow.Close()
}

func (c *Cart) warnPayload(op string, p any) {
	slog.Warn("unexpected intent payload dropped",
		"op", op, "payload", fmt.Sprintf("%T", p),
	)
}
