package state

import (
	"log/slog"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
)

// A Catalog is the product-catalog facade over the app state store.
type Catalog struct {
	store *Store[domain.AppState]
}

func NewCatalog(store *Store[domain.AppState]) Catalog {
	return Catalog{store}
}

// SetProducts replaces the catalog wholesale and announces
// [event.ProductsLoaded].
func (c Catalog) SetProducts(ps []domain.Product) {
	c.store.Update(event.ProductsLoaded, func(s *domain.AppState) {
		s.Catalog = append([]domain.Product(nil), ps...)
		s.Loading = false
	})
}

// SetLoading flags a catalog fetch in flight without announcing:
// loading is orchestrator bookkeeping, not a render trigger.
func (c Catalog) SetLoading(v bool) {
	s := c.store.rec
	s.Loading = v
	c.store.rec = s
}

// SetPreview sets the previewed product id, or clears it when id is
// empty. An id absent from the catalog is rejected with a warning so
// preview always references a loaded product.
func (c Catalog) SetPreview(id string) {
	const op = "Catalog.SetPreview"

	if id != "" {
		if _, ok := c.FindByID(id); !ok {
			slog.Warn("preview of unknown product rejected",
				"op", op, "productId", id,
			)
			return
		}
	}

	c.store.Update(event.PreviewChanged, func(s *domain.AppState) {
		s.Preview = id
	})
}

// FindByID looks a product up in the current catalog snapshot.
func (c Catalog) FindByID(id string) (domain.Product, bool) {
	for _, p := range c.store.rec.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Products returns the catalog snapshot.
func (c Catalog) Products() []domain.Product {
	return c.store.Snapshot().Catalog
}
