package domain

type (
	// A Product is a catalog entry, immutable once loaded.
	// Price is nil for items that cannot be purchased.
	Product struct {
		ID          string
		Title       string
		Description string
		Category    string
		Image       string
		Price       *int
	}

	// A BasketLine is a basket id joined with its catalog product,
	// derived for display and totals, never stored.
	BasketLine struct {
		ID       string
		Title    string
		Price    *int
		Quantity int
	}
)

// Priced reports whether the product contributes to order totals.
func (p Product) Priced() bool {
	return p.Price != nil
}
