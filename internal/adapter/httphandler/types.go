package httphandler

type (
	productView struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Image       string `json:"image"`
		Price       *int   `json:"price"`
	}

	lineItemView struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Price    *int   `json:"price"`
		Quantity int    `json:"quantity"`
	}

	orderView struct {
		Payment string   `json:"payment"`
		Address string   `json:"address"`
		Email   string   `json:"email"`
		Phone   string   `json:"phone"`
		Total   int      `json:"total"`
		Items   []string `json:"items"`
	}

	stateResponse struct {
		Catalog []productView `json:"catalog"`
		Basket  []string      `json:"basket"`
		Preview string        `json:"preview,omitempty"`
		Order   *orderView    `json:"order,omitempty"`
		Loading bool          `json:"loading"`
	}

	basketResponse struct {
		Items []lineItemView `json:"items"`
		Total int            `json:"total"`
	}

	basketItemRequest struct {
		ProductID string `json:"productId"`
	}

	orderStepRequest struct {
		Payment string `json:"payment"`
		Address string `json:"address"`
	}

	contactsRequest struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	busEventView struct {
		Event   string `json:"event"`
		Payload any    `json:"payload"`
	}
)
