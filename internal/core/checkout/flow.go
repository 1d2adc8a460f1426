package checkout

import (
	"log/slog"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
	"github.com/niksmo/web-larek/internal/core/state"
	"github.com/niksmo/web-larek/pkg/bus"
)

type Step int

const (
	StepIdle Step = iota
	StepOrder
	StepContacts
	StepSubmitting
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepOrder:
		return "order"
	case StepContacts:
		return "contacts"
	case StepSubmitting:
		return "submitting"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

// A Flow sequences the checkout steps over the shared app state.
//
// Field setters re-validate the active step and republish
// [event.OrderValidate] so renderers stay in sync. The flow never
// talks to the order sink itself: SubmitContacts hands the assembled
// order to the orchestrating caller, which resolves the Submitting
// step through CompleteSuccess or CompleteFailure.
type Flow struct {
	bus    *bus.Bus
	store  *state.Store[domain.AppState]
	basket state.Basket
	step   Step
	draft  domain.OrderDraft
}

func NewFlow(
	b *bus.Bus, store *state.Store[domain.AppState], basket state.Basket,
) *Flow {
	return &Flow{bus: b, store: store, basket: basket}
}

func (f *Flow) Step() Step {
	return f.step
}

func (f *Flow) Draft() domain.OrderDraft {
	return f.draft
}

// Open enters the order step. Checkout over an empty basket is
// refused. Draft fields entered earlier in the session survive
// re-entry.
func (f *Flow) Open() bool {
	const op = "Flow.Open"

	if f.step == StepSubmitting {
		return false
	}
	if f.basket.Len() == 0 {
		slog.Warn("checkout over empty basket refused", "op", op)
		return false
	}

	f.step = StepOrder
	f.publishValidity()
	return true
}

func (f *Flow) SetPayment(v domain.PaymentMethod) {
	f.draft.Payment = v
	f.revalidate()
}

func (f *Flow) SetAddress(v string) {
	f.draft.Address = v
	f.revalidate()
}

func (f *Flow) SetEmail(v string) {
	f.draft.Email = v
	f.revalidate()
}

func (f *Flow) SetPhone(v string) {
	f.draft.Phone = v
	f.revalidate()
}

// SubmitOrderStep advances to contacts when payment and address are
// both valid, otherwise republishes the errors and stays.
func (f *Flow) SubmitOrderStep() bool {
	if f.step != StepOrder {
		return false
	}

	fs := ValidateOrderStep(f.draft.Payment, f.draft.Address)
	if !fs.Valid {
		f.bus.Publish(event.OrderValidate, fs)
		return false
	}

	f.step = StepContacts
	f.publishValidity()
	return true
}

// SubmitContacts validates the contacts fields and the full order.
// On success the flow enters Submitting and returns the assembled
// order for the caller to hand to the order sink.
func (f *Flow) SubmitContacts() (domain.Order, bool) {
	if f.step != StepContacts {
		return domain.Order{}, false
	}

	order := f.assembleOrder()
	fs := ValidateOrder(order)
	if !fs.Valid {
		f.bus.Publish(event.OrderValidate, fs)
		return domain.Order{}, false
	}

	f.step = StepSubmitting
	return order, true
}

// CompleteSuccess resolves Submitting: the order is recorded and the
// basket cleared in one state update, so no observer sees an
// intermediate snapshot. The draft does not survive a placed order.
func (f *Flow) CompleteSuccess(order domain.Order) {
	const op = "Flow.CompleteSuccess"

	if f.step != StepSubmitting {
		slog.Warn("success outside submitting ignored",
			"op", op, "step", f.step.String(),
		)
		return
	}

	f.step = StepSuccess
	f.draft = domain.OrderDraft{}
	f.store.Update(event.OrderPlaced, func(s *domain.AppState) {
		o := order
		s.Order = &o
		s.Payment = order.Payment
		s.Basket = nil
	})
}

// CompleteFailure returns to the contacts step with the entered data
// preserved and surfaces the failure as an event. No partial order is
// recorded.
func (f *Flow) CompleteFailure(errMsg string) {
	if f.step != StepSubmitting {
		return
	}
	f.step = StepContacts
	f.bus.Publish(event.OrderError, event.ErrorPayload{Error: errMsg})
}

// Close returns to idle keeping the draft, so address and payment
// survive re-entry within the session.
func (f *Flow) Close() {
	if f.step == StepSubmitting {
		return
	}
	f.step = StepIdle
}

// Cancel returns to idle and discards the draft. The basket is
// untouched.
func (f *Flow) Cancel() {
	if f.step == StepSubmitting {
		return
	}
	f.step = StepIdle
	f.draft = domain.OrderDraft{}
}

func (f *Flow) assembleOrder() domain.Order {
	return domain.Order{
		Payment: f.draft.Payment,
		Address: f.draft.Address,
		Email:   f.draft.Email,
		Phone:   f.draft.Phone,
		Total:   f.basket.Total(),
		Items:   f.basket.PricedItems(),
	}
}

func (f *Flow) revalidate() {
	if f.step == StepOrder || f.step == StepContacts {
		f.publishValidity()
	}
}

func (f *Flow) publishValidity() {
	var fs FormState
	switch f.step {
	case StepOrder:
		fs = ValidateOrderStep(f.draft.Payment, f.draft.Address)
	case StepContacts:
		fs = ValidateContacts(f.draft.Email, f.draft.Phone)
	default:
		return
	}
	f.bus.Publish(event.OrderValidate, fs)
}
