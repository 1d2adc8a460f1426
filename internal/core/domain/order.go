package domain

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
	PaymentNone   PaymentMethod = ""
)

type (
	// An OrderDraft accumulates checkout fields across the order and
	// contacts steps before becoming an Order.
	OrderDraft struct {
		Payment PaymentMethod
		Address string
		Email   string
		Phone   string
	}

	// An Order is a fully populated draft plus the priced basket
	// content, submitted once, then immutable.
	Order struct {
		Payment PaymentMethod
		Address string
		Email   string
		Phone   string
		Total   int
		Items   []string
	}

	// An OrderReceipt is the order sink acknowledgment.
	OrderReceipt struct {
		ID    string
		Total int
	}
)
