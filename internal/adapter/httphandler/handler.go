package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/pkg/bus"
)

// POST v1/basket/items JSON {"productId"} (202 Accepted, 400 Bad request)
// DELETE v1/basket/items/{id} (202 Accepted)
// POST v1/products/{id}/select (202 Accepted)
// POST v1/order/open (202 Accepted)
// POST v1/order JSON {"payment","address"} (202 Accepted, 400 Bad request)
// POST v1/order/contacts JSON {"email","phone"} (202, 400)
// POST v1/modal/close (202 Accepted)
// GET v1/state (200 OK), GET v1/basket (200 OK), GET v1/events (SSE)

// A CartHandler translates UI HTTP calls into bus intents and serves
// read-only state. Intents are serialized through one mutex so bus
// dispatch stays effectively single-threaded, as the core expects.
type CartHandler struct {
	mu     *sync.Mutex
	bus    *bus.Bus
	viewer port.StateViewer
}

func RegisterCart(mux *http.ServeMux, b *bus.Bus, viewer port.StateViewer) {
	h := CartHandler{mu: &sync.Mutex{}, bus: b, viewer: viewer}

	mux.HandleFunc("GET /v1/state", h.GetState)
	mux.HandleFunc("GET /v1/basket", h.GetBasket)
	mux.HandleFunc("GET /v1/events", h.StreamEvents)

	mux.HandleFunc("POST /v1/products/{id}/select", h.SelectProduct)
	mux.HandleFunc("POST /v1/basket/items", h.AddBasketItem)
	mux.HandleFunc("DELETE /v1/basket/items/{id}", h.RemoveBasketItem)
	mux.HandleFunc("POST /v1/order/open", h.OpenOrder)
	mux.HandleFunc("POST /v1/order", h.SubmitOrderStep)
	mux.HandleFunc("PATCH /v1/order", h.ChangeOrderFields)
	mux.HandleFunc("POST /v1/order/contacts", h.SubmitContacts)
	mux.HandleFunc("PATCH /v1/order/contacts", h.ChangeContacts)
	mux.HandleFunc("POST /v1/modal/close", h.CloseModal)
}

func (h CartHandler) GetState(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetState"

	h.mu.Lock()
	s := h.viewer.State()
	h.mu.Unlock()

	h.writeJSON(w, op, toStateResponse(s))
}

func (h CartHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetBasket"

	h.mu.Lock()
	lines := h.viewer.LineItems()
	total := h.viewer.Total()
	h.mu.Unlock()

	res := basketResponse{Items: make([]lineItemView, 0, len(lines)), Total: total}
	for _, l := range lines {
		res.Items = append(res.Items, lineItemView(l))
	}
	h.writeJSON(w, op, res)
}

// StreamEvents serves the bus as a server-sent-events feed, one
// message per published event, until the client disconnects.
func (h CartHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.StreamEvents"
	log := slog.With("op", op)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	stream := make(chan busEventView, 64)
	sub := h.bus.SubscribeAll(func(name string, payload any) {
		select {
		case stream <- busEventView{Event: name, Payload: payload}:
		default:
			log.Warn("slow event stream client, event dropped", "event", name)
		}
	})
	defer h.bus.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-stream:
			data, err := json.Marshal(evt)
			if err != nil {
				log.Error("failed to encode event", "err", err)
				continue
			}
			if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h CartHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	h.publish(event.ProductSelected, event.ProductPayload{
		ProductID: r.PathValue("id"),
	})
	accepted(w)
}

func (h CartHandler) AddBasketItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddBasketItem"

	var req basketItemRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	h.publish(event.BasketItemAdded, event.ProductPayload{
		ProductID: req.ProductID,
	})
	accepted(w)
}

func (h CartHandler) RemoveBasketItem(w http.ResponseWriter, r *http.Request) {
	h.publish(event.BasketItemRemoved, event.ProductPayload{
		ProductID: r.PathValue("id"),
	})
	accepted(w)
}

func (h CartHandler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	h.publish(event.OrderOpen, nil)
	accepted(w)
}

func (h CartHandler) SubmitOrderStep(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SubmitOrderStep"

	var req orderStepRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	h.publish(event.OrderSubmit, event.OrderStepPayload(req))
	accepted(w)
}

func (h CartHandler) ChangeOrderFields(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ChangeOrderFields"

	var req orderStepRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	h.publish(event.OrderAddressChange, event.OrderStepPayload(req))
	accepted(w)
}

func (h CartHandler) SubmitContacts(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SubmitContacts"

	var req contactsRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	h.publish(event.ContactsSubmit, event.ContactsPayload(req))
	accepted(w)
}

func (h CartHandler) ChangeContacts(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ChangeContacts"

	var req contactsRequest
	if !h.decode(w, r, op, &req) {
		return
	}
	h.publish(event.ContactsChange, event.ContactsPayload(req))
	accepted(w)
}

func (h CartHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.publish(event.ModalClose, nil)
	accepted(w)
}

func (h CartHandler) publish(name string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bus.Publish(name, payload)
}

func (h CartHandler) decode(
	w http.ResponseWriter, r *http.Request, op string, v any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		slog.Warn("failed to parse JSON", "op", op, "err", err)
		return false
	}
	return true
}

func (h CartHandler) writeJSON(w http.ResponseWriter, op string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func accepted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusAccepted)
}

func toStateResponse(s domain.AppState) stateResponse {
	res := stateResponse{
		Catalog: make([]productView, 0, len(s.Catalog)),
		Basket:  s.Basket,
		Preview: s.Preview,
		Loading: s.Loading,
	}
	for _, p := range s.Catalog {
		res.Catalog = append(res.Catalog, productView(p))
	}
	if s.Order != nil {
		res.Order = &orderView{
			Payment: string(s.Order.Payment),
			Address: s.Order.Address,
			Email:   s.Order.Email,
			Phone:   s.Order.Phone,
			Total:   s.Order.Total,
			Items:   s.Order.Items,
		}
	}
	return res
}
