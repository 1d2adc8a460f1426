package domain

// An AppState is the aggregate session state. It is held by a single
// observable store and mutated only through the store's facades, so
// the order-placed transition (set order, clear basket) is observable
// as one snapshot.
type AppState struct {
	Catalog []Product
	Basket  []string
	Preview string
	Order   *Order
	Payment PaymentMethod
	Loading bool
}

// Clone returns a copy sharing no mutable memory with the receiver.
// Products themselves are immutable and copied by value.
func (s AppState) Clone() AppState {
	c := s
	c.Catalog = append([]Product(nil), s.Catalog...)
	c.Basket = append([]string(nil), s.Basket...)
	if s.Order != nil {
		o := *s.Order
		o.Items = append([]string(nil), s.Order.Items...)
		c.Order = &o
	}
	return c
}
