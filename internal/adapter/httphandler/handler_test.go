package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/web-larek/internal/adapter/httphandler"
	"github.com/niksmo/web-larek/internal/core/checkout"
	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
	"github.com/niksmo/web-larek/internal/core/service"
	"github.com/niksmo/web-larek/internal/core/state"
	"github.com/niksmo/web-larek/pkg/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) (*http.ServeMux, *bus.Bus, *service.Cart) {
	t.Helper()

	price := func(v int) *int { return &v }
	b := bus.New()
	store := state.NewStore(b, domain.AppState{})
	catalog := state.NewCatalog(store)
	catalog.SetProducts([]domain.Product{
		{ID: "p1", Title: "Hammer", Image: "h.png", Price: price(500)},
		{ID: "p2", Title: "Sticker", Image: "s.png", Price: nil},
	})
	basket := state.NewBasket(store, catalog)
	flow := checkout.NewFlow(b, store, basket)
	cart := service.NewCart(
		t.Context(), b, store, catalog, basket, flow, nil, nil,
	)
	cart.Attach()

	mux := http.NewServeMux()
	httphandler.RegisterCart(mux, b, cart)
	return mux, b, cart
}

func doJSON(
	t *testing.T, mux *http.ServeMux, method, target, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestCartHandlerIntents(t *testing.T) {
	t.Run("AddBasketItem", func(t *testing.T) {
		mux, _, cart := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/basket/items",
			`{"productId": "p1"}`,
		)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, []string{"p1"}, cart.State().Basket)
	})

	t.Run("AddBasketItemBadJSON", func(t *testing.T) {
		mux, _, cart := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{broken`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, cart.State().Basket)
	})

	t.Run("RemoveBasketItem", func(t *testing.T) {
		mux, _, cart := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{"productId": "p1"}`)

		w := doJSON(t, mux, http.MethodDelete, "/v1/basket/items/p1", "")

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, cart.State().Basket)
	})

	t.Run("SelectProduct", func(t *testing.T) {
		mux, _, cart := newTestMux(t)

		w := doJSON(t, mux, http.MethodPost, "/v1/products/p1/select", "")

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "p1", cart.State().Preview)
	})

	t.Run("OrderStepValidationVisible", func(t *testing.T) {
		mux, b, _ := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{"productId": "p1"}`)

		var fs checkout.FormState
		b.Subscribe(event.OrderValidate, func(p any) {
			fs = p.(checkout.FormState)
		})

		doJSON(t, mux, http.MethodPost, "/v1/order/open", "")
		doJSON(t, mux, http.MethodPatch, "/v1/order",
			`{"payment": "online", "address": "Main St"}`,
		)

		assert.True(t, fs.Valid)
	})
}

func TestCartHandlerReads(t *testing.T) {
	t.Run("GetState", func(t *testing.T) {
		mux, _, _ := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{"productId": "p1"}`)

		w := doJSON(t, mux, http.MethodGet, "/v1/state", "")

		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Catalog []struct {
				ID    string `json:"id"`
				Price *int   `json:"price"`
			} `json:"catalog"`
			Basket []string `json:"basket"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Catalog, 2)
		assert.Nil(t, res.Catalog[1].Price)
		assert.Equal(t, []string{"p1"}, res.Basket)
	})

	t.Run("GetBasket", func(t *testing.T) {
		mux, _, _ := newTestMux(t)
		doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{"productId": "p1"}`)
		doJSON(t, mux, http.MethodPost, "/v1/basket/items", `{"productId": "p2"}`)

		w := doJSON(t, mux, http.MethodGet, "/v1/basket", "")

		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Items []struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
			} `json:"items"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Items, 2)
		assert.Equal(t, 1, res.Items[0].Quantity)
		assert.Equal(t, 500, res.Total, "unpriced item excluded from total")
	})
}

func TestAllowJSON(t *testing.T) {
	mux, _, _ := newTestMux(t)
	h := httphandler.AllowJSON(mux)

	r := httptest.NewRequest(
		http.MethodPost, "/v1/basket/items",
		strings.NewReader(`{"productId": "p1"}`),
	)
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
