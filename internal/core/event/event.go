// Package event names the bus events exchanged between the core and
// external renderers/UI glue, with their payload shapes.
package event

// Published by the core.
const (
	ProductsLoaded = "products:loaded"
	ProductsError  = "products:error"
	ProductError   = "product:error"
	PreviewChanged = "preview:changed"
	BasketUpdated  = "basket:updated"
	BasketCounter  = "basket:counter"
	OrderValidate  = "order:validate"
	OrderPlaced    = "order:placed"
	OrderError     = "order:error"
)

// Published by external UI glue, consumed by the core.
const (
	ProductSelected    = "product:selected"
	BasketItemAdded    = "basket:item-added"
	BasketItemRemoved  = "basket:item-removed"
	OrderOpen          = "order:open"
	OrderPaymentChange = "order:payment:change"
	OrderAddressChange = "order:address:change"
	OrderSubmit        = "order:submit"
	ContactsChange     = "contacts:change"
	ContactsSubmit     = "contacts:submit"
	ModalClose         = "modal:close"
)

type (
	// A ProductPayload carries a product id intent.
	ProductPayload struct {
		ProductID string `json:"productId"`
	}

	// A CounterPayload carries the basket item count for the header.
	CounterPayload struct {
		Count int `json:"count"`
	}

	// An OrderStepPayload carries the order step fields.
	OrderStepPayload struct {
		Payment string `json:"payment"`
		Address string `json:"address"`
	}

	// A ContactsPayload carries the contacts step fields.
	ContactsPayload struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	// An ErrorPayload carries a collaborator failure message.
	ErrorPayload struct {
		Error string `json:"error"`
	}
)
