package shopapi

type (
	productList struct {
		Total int       `json:"total"`
		Items []product `json:"items"`
	}

	product struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Image       string `json:"image"`
		Price       *int   `json:"price"`
	}

	orderRequest struct {
		Payment string   `json:"payment"`
		Email   string   `json:"email"`
		Phone   string   `json:"phone"`
		Address string   `json:"address"`
		Total   int      `json:"total"`
		Items   []string `json:"items"`
	}

	orderSuccess struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}

	// apiError is the backend's structured error body,
	// e.g. {"error": "NotFound"}.
	apiError struct {
		Error string `json:"error"`
	}
)
