package state

import (
	"log/slog"
	"slices"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
)

// A Basket is the basket facade over the app state store.
//
// The basket is a set of product ids in insertion order. Add and
// Remove are idempotent; every call announces [event.BasketUpdated]
// even when the content is unchanged, so renderers observing the
// event need no separate no-op signal.
type Basket struct {
	store   *Store[domain.AppState]
	catalog Catalog
}

func NewBasket(store *Store[domain.AppState], catalog Catalog) Basket {
	return Basket{store, catalog}
}

func (b Basket) Add(productID string) {
	b.store.Update(event.BasketUpdated, func(s *domain.AppState) {
		if slices.Contains(s.Basket, productID) {
			return
		}
		s.Basket = append(s.Basket, productID)
	})
}

func (b Basket) Remove(productID string) {
	b.store.Update(event.BasketUpdated, func(s *domain.AppState) {
		i := slices.Index(s.Basket, productID)
		if i < 0 {
			return
		}
		s.Basket = slices.Delete(s.Basket, i, i+1)
	})
}

func (b Basket) Clear() {
	b.store.Update(event.BasketUpdated, func(s *domain.AppState) {
		s.Basket = nil
	})
}

// Items returns the basket product ids in display order.
func (b Basket) Items() []string {
	return b.store.Snapshot().Basket
}

func (b Basket) Len() int {
	return len(b.store.rec.Basket)
}

func (b Basket) Contains(productID string) bool {
	return slices.Contains(b.store.rec.Basket, productID)
}

// LineItems joins basket ids against the catalog. Ids with no
// matching product are a data-integrity warning and are skipped;
// unpriced products are kept for display.
func (b Basket) LineItems() []domain.BasketLine {
	const op = "Basket.LineItems"

	var lines []domain.BasketLine
	for _, id := range b.store.rec.Basket {
		p, ok := b.catalog.FindByID(id)
		if !ok {
			slog.Warn("basket id without catalog product skipped",
				"op", op, "productId", id,
			)
			continue
		}
		lines = append(lines, domain.BasketLine{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Quantity: 1,
		})
	}
	return lines
}

// Total sums prices over line items, excluding unpriced products.
func (b Basket) Total() int {
	var total int
	for _, l := range b.LineItems() {
		if l.Price != nil {
			total += *l.Price
		}
	}
	return total
}

// Eligible reports whether the basket can become an order, that is
// holds at least one priced item.
func (b Basket) Eligible() bool {
	return len(b.PricedItems()) != 0
}

// PricedItems returns the ids eligible for order submission.
func (b Basket) PricedItems() []string {
	var ids []string
	for _, l := range b.LineItems() {
		if l.Price != nil {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
